package domain

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"
	MessageFailedSubscribe         = "failed to subscribe"
	MessageFailedUnsubscribe       = "failed to unsubscribe"
	MessageFailedGetSubscriptions  = "failed to get subscriptions"

	ErrCannotFollowSelf  = NewConflictError("cannot follow yourself")
	ErrAlreadySubscribed = NewConflictError("already subscribed")
	ErrNotSubscribed     = NewConflictError("not subscribed")
)

type (
	SubscriptionFilter struct {
		RecipesLimit int
		PageRequest
	}

	Subscription struct {
		UserProfile
		Recipes      []RecipeMinified `json:"recipes"`
		RecipesCount int64            `json:"recipes_count"`
	}

	SubscriptionListResponse struct {
		Results    []Subscription `json:"results"`
		Pagination Pagination     `json:"pagination"`
	}
)

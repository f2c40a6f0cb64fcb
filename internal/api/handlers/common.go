package handlers

import (
	"strconv"

	"foodgram-backend/domain"
	"foodgram-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 100

// currentUserID is empty for anonymous requests.
func currentUserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func pageRequest(c *fiber.Ctx) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	defaultLimit := utils.GetConfigInt("PAGE_SIZE", 20)
	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	return domain.PageRequest{Page: page, Limit: limit}
}

func queryFlag(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "1", "true", "True":
		return true
	default:
		return false
	}
}

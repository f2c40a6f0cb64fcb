package tag

import (
	"context"
	"errors"
	"strings"

	"foodgram-backend/domain"
	"foodgram-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	TagService interface {
		GetTags(ctx context.Context) ([]domain.Tag, error)
		GetTag(ctx context.Context, id string) (domain.Tag, error)
		CreateTag(ctx context.Context, req domain.TagRequest) (domain.Tag, error)
		UpdateTag(ctx context.Context, id string, req domain.TagRequest) (domain.Tag, error)
		DeleteTag(ctx context.Context, id string) error
	}

	tagService struct {
		tagRepository TagRepository
	}
)

func NewTagService(tagRepository TagRepository) TagService {
	return &tagService{tagRepository: tagRepository}
}

func toTag(t *entities.Tag) domain.Tag {
	return domain.Tag{
		ID:    t.ID.String(),
		Name:  t.Name,
		Color: t.Color,
		Slug:  t.Slug,
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrTagNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrTagSlugTaken
	default:
		return err
	}
}

func (s *tagService) GetTags(ctx context.Context) ([]domain.Tag, error) {
	tags, err := s.tagRepository.GetTags(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		res = append(res, toTag(t))
	}
	return res, nil
}

func (s *tagService) find(ctx context.Context, id string) (*entities.Tag, error) {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrTagNotFound
	}
	tag, err := s.tagRepository.GetTagByID(ctx, tagID)
	if err != nil {
		return nil, mapError(err)
	}
	return tag, nil
}

func (s *tagService) GetTag(ctx context.Context, id string) (domain.Tag, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	return toTag(tag), nil
}

func (s *tagService) CreateTag(ctx context.Context, req domain.TagRequest) (domain.Tag, error) {
	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  req.Name,
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
	if err := s.tagRepository.CreateTag(ctx, tag); err != nil {
		return domain.Tag{}, mapError(err)
	}
	return toTag(tag), nil
}

func (s *tagService) UpdateTag(ctx context.Context, id string, req domain.TagRequest) (domain.Tag, error) {
	tag, err := s.find(ctx, id)
	if err != nil {
		return domain.Tag{}, err
	}
	tag.Name = req.Name
	tag.Color = strings.ToUpper(req.Color)
	tag.Slug = req.Slug
	if err := s.tagRepository.UpdateTag(ctx, tag); err != nil {
		return domain.Tag{}, mapError(err)
	}
	return toTag(tag), nil
}

func (s *tagService) DeleteTag(ctx context.Context, id string) error {
	tagID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrTagNotFound
	}
	return mapError(s.tagRepository.DeleteTag(ctx, tagID))
}

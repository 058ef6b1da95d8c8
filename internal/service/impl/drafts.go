package impl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/storage"
)

const (
	draftsKey   = "projectDrafts"
	draftPrefix = "draft-"
)

type draftDTO struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Category      string         `json:"category"`
	FundingGoal   string         `json:"fundingGoal"`
	Description   string         `json:"description"`
	CoverImage    string         `json:"coverImage"`
	SocialLinks   socialLinksDTO `json:"socialLinks"`
	TermsAccepted bool           `json:"termsAccepted"`
	Creator       string         `json:"creator"`
	LastUpdated   time.Time      `json:"lastUpdated"`
}

type submitParams struct {
	Title       string `validate:"required"`
	Category    string `validate:"required"`
	FundingGoal string `validate:"required"`
	Creator     string `validate:"required"`
}

type drafts struct {
	s   storage.Storage
	p   service.Projects
	now func() time.Time
}

// NewDrafts creates new instance of drafts service.
func NewDrafts(s storage.Storage, p service.Projects) service.Drafts {
	return drafts{
		s:   s,
		p:   p,
		now: time.Now,
	}
}

func (d drafts) Create(ctx context.Context, creator string) (*entities.Draft, error) {
	draft := &entities.Draft{
		ID:      newDraftID(),
		Creator: creator,
	}

	return d.Save(ctx, draft)
}

func (d drafts) Get(ctx context.Context, id string) (*entities.Draft, error) {
	list, err := getDrafts(ctx, d.s)
	if err != nil {
		return nil, err
	}

	i := indexOfDraft(list, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", service.ErrDraftNotFound, id)
	}

	return toDraft(list[i]), nil
}

func (d drafts) List(ctx context.Context, creator string) ([]*entities.Draft, error) {
	list, err := getDrafts(ctx, d.s)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Draft, 0, len(list))
	for _, v := range list {
		if creator != "" && v.Creator != creator {
			continue
		}
		out = append(out, toDraft(v))
	}

	return out, nil
}

// Save inserts or replaces the draft and updates its LastUpdated. Draft without id gets a new one.
func (d drafts) Save(ctx context.Context, draft *entities.Draft) (*entities.Draft, error) {
	saved := *draft
	if saved.ID == "" {
		saved.ID = newDraftID()
	}
	saved.LastUpdated = d.now().UTC()

	err := d.s.InTx(ctx, func(s storage.Storage) error {
		list, err := getDrafts(ctx, s)
		if err != nil {
			return err
		}

		if i := indexOfDraft(list, saved.ID); i >= 0 {
			list[i] = toDraftDTO(&saved)
		} else {
			list = append(list, toDraftDTO(&saved))
		}

		return setJSON(ctx, s, draftsKey, list)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save draft: %w", err)
	}

	return &saved, nil
}

func (d drafts) Delete(ctx context.Context, id string) error {
	err := d.s.InTx(ctx, func(s storage.Storage) error {
		list, err := getDrafts(ctx, s)
		if err != nil {
			return err
		}

		i := indexOfDraft(list, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", service.ErrDraftNotFound, id)
		}

		return setJSON(ctx, s, draftsKey, append(list[:i], list[i+1:]...))
	})
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	return nil
}

func (d drafts) Submit(ctx context.Context, id string) (string, error) {
	draft, err := d.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if v := validate.Struct(submitParams{
		Title:       draft.Title,
		Category:    draft.Category,
		FundingGoal: draft.FundingGoal,
		Creator:     draft.Creator,
	}); !v.Validate() {
		return "", fmt.Errorf("%w: %s", service.ErrInvalidRequest, v.Errors.One())
	}

	if !draft.TermsAccepted {
		return "", fmt.Errorf("%w: terms are not accepted", service.ErrInvalidRequest)
	}

	goal, err := decimal.NewFromString(draft.FundingGoal)
	if err != nil {
		return "", fmt.Errorf("%w: invalid funding goal %s", service.ErrInvalidRequest, draft.FundingGoal)
	}

	permlink, err := d.p.CreateProject(ctx, service.CreateProjectParams{
		Username:    draft.Creator,
		Title:       draft.Title,
		Body:        projectBody(draft),
		Category:    draft.Category,
		FundingGoal: goal,
		CoverImage:  draft.CoverImage,
		SocialLinks: draft.SocialLinks,
	})
	if err != nil {
		return "", err
	}

	if err := d.Delete(ctx, id); err != nil {
		log.WithField("id", id).WithError(err).Error("failed to delete submitted draft")
	}

	return permlink, nil
}

// projectBody renders markdown post body of the draft.
func projectBody(d *entities.Draft) string {
	return fmt.Sprintf(
		"# %s\n\n## About this project\n%s\n\n## Funding Goal\n%s HIVE\n\n## Category\n%s\n",
		d.Title, d.Description, d.FundingGoal, d.Category,
	)
}

func newDraftID() string {
	return draftPrefix + uuid.New().String()
}

func getDrafts(ctx context.Context, s storage.Storage) ([]draftDTO, error) {
	list := []draftDTO{}
	if err := getJSON(ctx, s, draftsKey, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func indexOfDraft(list []draftDTO, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}

	return -1
}

func toDraft(d draftDTO) *entities.Draft {
	return &entities.Draft{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		FundingGoal:   d.FundingGoal,
		Description:   d.Description,
		CoverImage:    d.CoverImage,
		SocialLinks:   entities.SocialLinks(d.SocialLinks),
		TermsAccepted: d.TermsAccepted,
		Creator:       d.Creator,
		LastUpdated:   d.LastUpdated,
	}
}

func toDraftDTO(d *entities.Draft) draftDTO {
	return draftDTO{
		ID:            d.ID,
		Title:         d.Title,
		Category:      d.Category,
		FundingGoal:   d.FundingGoal,
		Description:   d.Description,
		CoverImage:    d.CoverImage,
		SocialLinks:   socialLinksDTO(d.SocialLinks),
		TermsAccepted: d.TermsAccepted,
		Creator:       d.Creator,
		LastUpdated:   d.LastUpdated,
	}
}

// AI interaction persistence
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/choraleia/collectly/pkg/costs"
	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/utils"
)

// InteractionFilter narrows a listing. Empty fields match everything.
type InteractionFilter struct {
	Model string
	Type  string
}

// InteractionStore writes and reads AI interaction records. Records are
// immutable once written.
type InteractionStore struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewInteractionStore(database *gorm.DB) *InteractionStore {
	return &InteractionStore{
		db:     database,
		logger: utils.GetLogger(),
		now:    time.Now,
	}
}

// Record persists a new interaction, assigning ID and CreatedAt when unset.
func (s *InteractionStore) Record(ctx context.Context, interaction *db.AIInteraction) error {
	if strings.TrimSpace(interaction.OrganizationID) == "" {
		return invalidInput("organization_id is required")
	}
	if _, ok := db.SupportedInteractionTypes[interaction.InteractionType]; !ok {
		return invalidInput("unsupported interaction type %q", interaction.InteractionType)
	}
	if interaction.CostUSD < 0 {
		return invalidInput("cost_usd must be >= 0")
	}
	if interaction.ID == "" {
		interaction.ID = uuid.New().String()
	}
	if interaction.CreatedAt.IsZero() {
		interaction.CreatedAt = s.now().UTC()
	}
	interaction.NormalizeTokens()

	if err := s.db.WithContext(ctx).Create(interaction).Error; err != nil {
		return errors.Wrapf(err, "record ai interaction for organization %s", interaction.OrganizationID)
	}
	return nil
}

// Get returns one interaction.
func (s *InteractionStore) Get(ctx context.Context, organizationID, id string) (*db.AIInteraction, error) {
	var interaction db.AIInteraction
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&interaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get ai interaction")
	}
	return &interaction, nil
}

// ListByOrganization returns interactions created in [from, to), oldest
// first. A zero from or to leaves that side open.
func (s *InteractionStore) ListByOrganization(ctx context.Context, organizationID string, from, to time.Time, filter InteractionFilter) ([]db.AIInteraction, error) {
	q := s.db.WithContext(ctx).Where("organization_id = ?", organizationID)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from.UTC())
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to.UTC())
	}
	if m := strings.TrimSpace(filter.Model); m != "" {
		q = q.Where("model_used = ?", m)
	}
	if t := strings.TrimSpace(filter.Type); t != "" {
		q = q.Where("interaction_type = ?", t)
	}

	var interactions []db.AIInteraction
	if err := q.Order("created_at ASC").Find(&interactions).Error; err != nil {
		return nil, errors.Wrapf(err, "list ai interactions for organization %s", organizationID)
	}
	return interactions, nil
}

// ToCostRecords projects interactions onto the aggregator's record type.
func ToCostRecords(interactions []db.AIInteraction) []costs.Record {
	records := make([]costs.Record, 0, len(interactions))
	for _, i := range interactions {
		records = append(records, costs.Record{
			Model:            i.ModelUsed,
			Type:             string(i.InteractionType),
			PromptTokens:     i.PromptTokens,
			CompletionTokens: i.CompletionTokens,
			TotalTokens:      i.TokensUsed,
			CostUSD:          i.CostUSD,
			CreatedAt:        i.CreatedAt,
		})
	}
	return records
}

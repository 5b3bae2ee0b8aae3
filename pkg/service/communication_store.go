// Communication log persistence with optional content encryption
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/choraleia/collectly/pkg/db"
	"github.com/choraleia/collectly/pkg/utils"
)

// CommunicationStore persists communication logs. When a cipher is set the
// content column is encrypted at rest and decrypted on read.
type CommunicationStore struct {
	db     *gorm.DB
	cipher *utils.FieldCipher
	logger *slog.Logger
	now    func() time.Time
}

// NewCommunicationStore creates a store. cipher may be nil.
func NewCommunicationStore(database *gorm.DB, cipher *utils.FieldCipher) *CommunicationStore {
	return &CommunicationStore{
		db:     database,
		cipher: cipher,
		logger: utils.GetLogger(),
		now:    time.Now,
	}
}

// Create validates and stores a new communication. The passed value keeps its
// plaintext content.
func (s *CommunicationStore) Create(ctx context.Context, comm *db.CommunicationLog) error {
	if strings.TrimSpace(comm.OrganizationID) == "" {
		return invalidInput("organization_id is required")
	}
	comm.Direction = strings.ToLower(strings.TrimSpace(comm.Direction))
	if comm.Direction != db.DirectionInbound && comm.Direction != db.DirectionOutbound {
		return invalidInput("direction must be inbound or outbound, got %q", comm.Direction)
	}
	if comm.Type == "" {
		comm.Type = db.ChannelEmail
	}
	if comm.ID == "" {
		comm.ID = uuid.New().String()
	}
	if comm.SentAt.IsZero() {
		comm.SentAt = s.now().UTC()
	}

	row := *comm
	encrypted, err := s.cipher.Encrypt(comm.Content)
	if err != nil {
		return errors.Wrap(err, "encrypt communication content")
	}
	row.Content = encrypted

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return errors.Wrapf(err, "create communication for organization %s", comm.OrganizationID)
	}
	comm.CreatedAt = row.CreatedAt
	comm.UpdatedAt = row.UpdatedAt
	return nil
}

// Get returns one communication of the organization.
func (s *CommunicationStore) Get(ctx context.Context, organizationID, id string) (*db.CommunicationLog, error) {
	var comm db.CommunicationLog
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&comm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get communication")
	}
	s.decrypt(&comm)
	return &comm, nil
}

// ListByThread returns a thread's messages ordered by sent_at ascending.
func (s *CommunicationStore) ListByThread(ctx context.Context, organizationID, threadID string) ([]db.CommunicationLog, error) {
	var comms []db.CommunicationLog
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND thread_id = ?", organizationID, threadID).
		Order("sent_at ASC").
		Find(&comms).Error
	if err != nil {
		return nil, errors.Wrapf(err, "list thread %s", threadID)
	}
	s.decryptAll(comms)
	return comms, nil
}

// ListThreaded returns every message that belongs to a thread, optionally
// restricted to one case, ordered by sent_at ascending.
func (s *CommunicationStore) ListThreaded(ctx context.Context, organizationID, caseID string) ([]db.CommunicationLog, error) {
	q := s.db.WithContext(ctx).
		Where("organization_id = ?", organizationID).
		Where("thread_id IS NOT NULL AND thread_id <> ''")
	if caseID = strings.TrimSpace(caseID); caseID != "" {
		q = q.Where("case_id = ?", caseID)
	}

	var comms []db.CommunicationLog
	if err := q.Order("sent_at ASC").Find(&comms).Error; err != nil {
		return nil, errors.Wrapf(err, "list threaded communications for organization %s", organizationID)
	}
	s.decryptAll(comms)
	return comms, nil
}

// UpdateAnalysis stores the AI sentiment and compliance flags.
func (s *CommunicationStore) UpdateAnalysis(ctx context.Context, organizationID, id, sentiment string, flags []string) error {
	res := s.db.WithContext(ctx).Model(&db.CommunicationLog{}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		Updates(map[string]interface{}{
			"ai_sentiment":     sentiment,
			"compliance_flags": db.StringList(flags),
			"updated_at":       s.now().UTC(),
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update analysis for communication %s", id)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *CommunicationStore) decryptAll(comms []db.CommunicationLog) {
	for i := range comms {
		s.decrypt(&comms[i])
	}
}

// decrypt never fails a read; undecryptable content is blanked.
func (s *CommunicationStore) decrypt(comm *db.CommunicationLog) {
	plain, err := s.cipher.Decrypt(comm.Content)
	if err != nil {
		s.logger.Warn("Failed to decrypt communication content", "communicationID", comm.ID, "error", err)
		comm.Content = ""
		return
	}
	comm.Content = plain
}

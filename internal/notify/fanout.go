// Package notify sends one message to many recipients and reports the outcome
// of every send.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/glee_portal/internal/identity"
	"github.com/Freeeeeet/glee_portal/internal/messaging"
	"github.com/Freeeeeet/glee_portal/internal/model"
	"github.com/Freeeeeet/glee_portal/internal/service"
)

// DefaultBatchSize is the number of sends in flight at once.
const DefaultBatchSize = 10

// ErrUnauthenticated rejects a call without a valid credential.
var ErrUnauthenticated = fmt.Errorf("%w: unauthenticated", service.ErrValidation)

type Authenticator interface {
	Authenticate(ctx context.Context, credential string) (identity.Identity, error)
}

type ProfileStore interface {
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Profile, error)
}

type GroupStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Group, error)
	MemberIDs(ctx context.Context, groupID uuid.UUID) ([]uuid.UUID, error)
}

type AuditLog interface {
	Append(ctx context.Context, entries []model.NotificationAuditEntry) error
}

type Request struct {
	Channel    model.Channel `validate:"required,oneof=sms email telegram"`
	Recipients []Recipient
	GroupID    *uuid.UUID
	Subject    string `validate:"max=200"`
	Message    string `validate:"required_without=HTML"`
	// HTML is an email body sent as is. Other channels ignore it.
	HTML       string
	SenderName string
	Credential string
}

type Result struct {
	JobID   uuid.UUID              `json:"job_id"`
	Channel model.Channel          `json:"channel"`
	Sent    int                    `json:"sent"`
	Failed  int                    `json:"failed"`
	Results []model.DeliveryResult `json:"results"`
}

type Config struct {
	OrgName          string
	BatchSize        int
	MaxMessageLength int
}

type Service struct {
	auth     Authenticator
	profiles ProfileStore
	groups   GroupStore
	audit    AuditLog
	senders  map[model.Channel]messaging.Sender
	metrics  *Metrics
	cfg      Config
	logger   *zap.Logger
}

func NewService(
	auth Authenticator,
	profiles ProfileStore,
	groups GroupStore,
	audit AuditLog,
	senders map[model.Channel]messaging.Sender,
	metrics *Metrics,
	cfg Config,
	logger *zap.Logger,
) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.MaxMessageLength <= 0 {
		cfg.MaxMessageLength = DefaultMaxMessageLength
	}
	return &Service{
		auth:     auth,
		profiles: profiles,
		groups:   groups,
		audit:    audit,
		senders:  senders,
		metrics:  metrics,
		cfg:      cfg,
		logger:   logger,
	}
}

// Send authenticates the caller, resolves the recipients, and sends the
// composed message to every distinct address. Failed sends are reported in
// the result, never as an error. Once dispatching starts it runs to the end
// even when ctx is cancelled.
func (s *Service) Send(ctx context.Context, req Request) (*Result, error) {
	started := time.Now()
	jobID := uuid.New()
	log := s.logger.With(zap.String("job_id", jobID.String()), zap.String("channel", string(req.Channel)))

	log.Info("Fan-out received", zap.Int("recipients", len(req.Recipients)))

	caller, err := s.auth.Authenticate(ctx, req.Credential)
	if err != nil {
		log.Warn("Fan-out rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	req.Message = strings.TrimSpace(req.Message)
	req.HTML = strings.TrimSpace(req.HTML)
	if req.Channel != model.ChannelEmail {
		req.HTML = ""
	}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrValidation, err)
	}

	sender, ok := s.senders[req.Channel]
	if !ok || sender == nil {
		return nil, fmt.Errorf("%w: channel %s is not configured", service.ErrValidation, req.Channel)
	}

	label, addresses, err := s.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info("Fan-out validated",
		zap.String("sender_user_id", caller.UserID.String()),
		zap.Int("addresses", len(addresses)))

	result := &Result{JobID: jobID, Channel: req.Channel, Results: []model.DeliveryResult{}}
	if len(addresses) == 0 {
		log.Info("Fan-out aggregated", zap.Int("sent", 0), zap.Int("failed", 0))
		return result, nil
	}

	var msg messaging.Message
	if req.Message != "" {
		msg.Text = Compose(label, req.SenderName, req.Message, s.cfg.MaxMessageLength)
	}
	if req.Channel == model.ChannelEmail {
		msg.Subject = req.Subject
		if msg.Subject == "" {
			msg.Subject = label
		}
		msg.HTML = req.HTML
		if msg.HTML == "" {
			msg.HTML = emailHTML(label, msg.Text)
		}
	}

	log.Info("Fan-out dispatching", zap.Int("batch_size", s.cfg.BatchSize))

	// sends are not cancelled with the request
	sendCtx := context.WithoutCancel(ctx)
	result.Results = s.dispatch(sendCtx, sender, addresses, msg)

	for _, r := range result.Results {
		status := "sent"
		if r.Success {
			result.Sent++
		} else {
			result.Failed++
			status = "failed"
		}
		s.metrics.DeliveriesTotal.WithLabelValues(string(req.Channel), status).Inc()
	}
	s.metrics.FanoutDuration.WithLabelValues(string(req.Channel)).Observe(time.Since(started).Seconds())

	s.writeAudit(sendCtx, log, result, caller.UserID)

	log.Info("Fan-out aggregated", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	return result, nil
}

// resolve expands the group, looks up user references, normalizes every
// address and drops invalid ones and repeats. It returns the context label.
func (s *Service) resolve(ctx context.Context, req Request) (string, []string, error) {
	label := s.cfg.OrgName
	recipients := append([]Recipient(nil), req.Recipients...)

	if req.GroupID != nil {
		group, err := s.groups.GetByID(ctx, *req.GroupID)
		if err != nil {
			return "", nil, fmt.Errorf("get group: %w: %w", service.ErrCollaborator, err)
		}
		if group == nil {
			return "", nil, fmt.Errorf("group %s: %w", *req.GroupID, service.ErrNotFound)
		}
		if group.Name != "" {
			label = group.Name
		}

		members, err := s.groups.MemberIDs(ctx, group.ID)
		if err != nil {
			return "", nil, fmt.Errorf("get group members: %w: %w", service.ErrCollaborator, err)
		}
		for _, id := range members {
			recipients = append(recipients, UserRef(id))
		}
	}

	var userIDs []uuid.UUID
	for _, r := range recipients {
		if r.Kind == KindUser {
			userIDs = append(userIDs, r.UserID)
		}
	}

	profiles := make(map[uuid.UUID]*model.Profile, len(userIDs))
	if len(userIDs) > 0 {
		found, err := s.profiles.GetByIDs(ctx, userIDs)
		if err != nil {
			return "", nil, fmt.Errorf("get profiles: %w: %w", service.ErrCollaborator, err)
		}
		for _, p := range found {
			profiles[p.UserID] = p
		}
	}

	seen := make(map[string]struct{}, len(recipients))
	addresses := make([]string, 0, len(recipients))
	dropped := 0

	for _, r := range recipients {
		raw := r.Address
		if r.Kind == KindUser {
			p, ok := profiles[r.UserID]
			if !ok {
				dropped++
				continue
			}
			raw = contactFor(req.Channel, p)
		}

		addr, ok := normalizeAddress(req.Channel, raw)
		if !ok {
			dropped++
			continue
		}
		if _, dup := seen[addr]; dup {
			continue
		}
		seen[addr] = struct{}{}
		addresses = append(addresses, addr)
	}

	if dropped > 0 {
		s.metrics.DroppedAddresses.WithLabelValues(string(req.Channel)).Add(float64(dropped))
		s.logger.Debug("Recipients dropped", zap.Int("dropped", dropped))
	}

	return label, addresses, nil
}

// dispatch sends to addresses in batches. A batch finishes before the next starts.
func (s *Service) dispatch(ctx context.Context, sender messaging.Sender, addresses []string, msg messaging.Message) []model.DeliveryResult {
	results := make([]model.DeliveryResult, len(addresses))

	for start := 0; start < len(addresses); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(addresses))

		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				results[i] = sendOne(ctx, sender, addresses[i], msg)
				return nil
			})
		}
		_ = g.Wait()
	}

	return results
}

func sendOne(ctx context.Context, sender messaging.Sender, addr string, msg messaging.Message) (res model.DeliveryResult) {
	res.Address = addr
	defer func() {
		if r := recover(); r != nil {
			res.Success = false
			res.Error = fmt.Sprintf("sender panic: %v", r)
		}
	}()

	id, err := sender.Send(ctx, addr, msg)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.ProviderMessageID = id
	return res
}

func (s *Service) writeAudit(ctx context.Context, log *zap.Logger, result *Result, senderID uuid.UUID) {
	if s.audit == nil {
		return
	}

	var sender *uuid.UUID
	if senderID != uuid.Nil {
		sender = &senderID
	}

	entries := make([]model.NotificationAuditEntry, 0, len(result.Results))
	for _, r := range result.Results {
		entries = append(entries, model.NotificationAuditEntry{
			JobID:             result.JobID,
			Channel:           result.Channel,
			Address:           r.Address,
			Success:           r.Success,
			ProviderMessageID: r.ProviderMessageID,
			Error:             r.Error,
			SenderUserID:      sender,
		})
	}

	if err := s.audit.Append(ctx, entries); err != nil {
		log.Warn("Notification audit write failed", zap.Error(err))
	}
}

package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"go.uber.org/zap"

	bookingDomain "github.com/UsmanRajput1111/SolarRevive/internal/domain/booking"
	"github.com/UsmanRajput1111/SolarRevive/internal/events"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/domain"
	"github.com/UsmanRajput1111/SolarRevive/internal/platform/kafka"
)

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	repo      bookingDomain.BookingRepository
	pricing   bookingDomain.PricingStrategy
	publisher EventPublisher
	topic     string
	logger    *zap.Logger
	clock     func() time.Time
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	repo bookingDomain.BookingRepository,
	pricing bookingDomain.PricingStrategy,
	publisher EventPublisher,
	topic string,
	logger *zap.Logger,
) *BookingService {
	if topic == "" {
		topic = events.TopicBookingEvents
	}
	return &BookingService{
		repo:      repo,
		pricing:   pricing,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// pendingEvent is an event to publish once the write has committed.
type pendingEvent struct {
	eventType string
	data      interface{}
}

// CreateBooking creates a new booking for the given customer.
func (s *BookingService) CreateBooking(ctx context.Context, actor bookingDomain.Actor, req CreateBookingRequest) (*BookingDTO, error) {
	if err := bookingDomain.CanCreate(actor); err != nil {
		return nil, err
	}

	bookingDate, err := parseBookingDate(req.BookingDate)
	if err != nil {
		return nil, err
	}

	payment, err := bookingDomain.NewPayment(req.Payment.Method, req.Payment.PaymentID)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(
		actor.UserID,
		bookingDomain.ServiceType(strings.TrimSpace(req.ServiceType)),
		req.Address,
		bookingDate,
		req.WantsSubscription,
		s.pricing,
		payment,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, bk); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", bk.ID().String()),
		zap.String("actor_id", actor.UserID.String()),
		zap.String("service_type", string(bk.ServiceType())),
		zap.String("amount_due", bk.AmountDue().String()),
	)

	s.publishEvent(ctx, bk.ID(), events.BookingCreated, events.BookingCreatedEvent{
		BookingID:             bk.ID(),
		CustomerID:            bk.CustomerID(),
		ServiceType:           string(bk.ServiceType()),
		BookingDate:           bk.BookingDate(),
		IsSubscriptionBooking: bk.IsSubscriptionBooking(),
		AmountDue:             bk.AmountDue(),
		Currency:              bk.Currency(),
		PaymentMethod:         string(bk.Payment().Method()),
		OccurredAt:            s.clock(),
	})

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking retrieves a single booking the actor has a relationship to.
func (s *BookingService) GetBooking(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, err := bookingDomain.Authorize(actor, bk); err != nil {
		return nil, err
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListBookings returns the page of bookings visible to the actor.
func (s *BookingService) ListBookings(ctx context.Context, actor bookingDomain.Actor, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if actor.UserID == uuid.Nil {
		return nil, domain.NewUnauthorizedError("missing identity")
	}
	return s.list(ctx, bookingDomain.ScopeFor(actor), page, limit)
}

// ListAttentionRequired returns bookings whose payment an admin should look at (admin).
func (s *BookingService) ListAttentionRequired(ctx context.Context, actor bookingDomain.Actor, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("admin access required")
	}
	filter := bookingDomain.ScopeFor(actor)
	filter.RequiresAdminAttention = true
	return s.list(ctx, filter, page, limit)
}

func (s *BookingService) list(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.repo.FindAll(ctx, filter, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bookings), total, page, limit)
	return &result, nil
}

// AssignTechnician sets the booking's technician and moves it to Assigned (admin).
func (s *BookingService) AssignTechnician(ctx context.Context, actor bookingDomain.Actor, bookingID, technicianID uuid.UUID) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsAdmin {
			return nil, domain.NewForbiddenError("only admins can assign technicians")
		}
		evt, err := s.assign(bk, technicianID)
		if err != nil {
			return nil, err
		}
		return []pendingEvent{evt}, nil
	})
}

// ApprovePayment marks the payment Paid on the admin's authority (admin).
func (s *BookingService) ApprovePayment(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsAdmin {
			return nil, domain.NewForbiddenError("only admins can approve payments")
		}
		return s.approvePayment(bk)
	})
}

// ConfirmCashPayment records that the assigned technician collected the cash (technician).
func (s *BookingService) ConfirmCashPayment(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsAssignedTechnician {
			return nil, domain.NewForbiddenError("only the assigned technician can confirm cash payments")
		}
		evt, err := s.confirmCash(bk)
		if err != nil {
			return nil, err
		}
		return []pendingEvent{evt}, nil
	})
}

// UpdateStatus advances the job one step (technician).
func (s *BookingService) UpdateStatus(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, status string) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsAssignedTechnician {
			return nil, domain.NewForbiddenError("only the assigned technician can change the status")
		}
		target, err := parseStatus(status)
		if err != nil {
			return nil, err
		}
		evt, err := s.advance(bk, target)
		if err != nil {
			return nil, err
		}
		return []pendingEvent{evt}, nil
	})
}

// AttachImage records a before or after photo (technician).
func (s *BookingService) AttachImage(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, kind, url string) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsAssignedTechnician {
			return nil, domain.NewForbiddenError("only the assigned technician can attach images")
		}
		imageKind, err := bookingDomain.ParseImageKind(kind)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		evt, err := s.attachImage(bk, imageKind, url)
		if err != nil {
			return nil, err
		}
		return []pendingEvent{evt}, nil
	})
}

// RateBooking attaches the customer's rating to a completed booking (owner).
func (s *BookingService) RateBooking(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, rating int) (*BookingDTO, error) {
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if !caps.IsOwner {
			return nil, domain.NewForbiddenError("only the customer who booked can rate")
		}
		evt, err := s.rate(bk, rating)
		if err != nil {
			return nil, err
		}
		return []pendingEvent{evt}, nil
	})
}

// UpdateBooking applies a role-dependent partial update. Every field must be one the actor may
// change; all requested changes are applied together or not at all.
//
//	admin:               technician, payment.status
//	assigned technician: status, images, payment.status, paymentReceivedBy
//	owner:               rating
//
// An admin update that assigns a technician always leaves the booking Assigned, so a status sent
// alongside it is ignored.
func (s *BookingService) UpdateBooking(ctx context.Context, actor bookingDomain.Actor, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	if req.isEmpty() {
		return nil, domain.NewValidationError("no fields to update")
	}
	return s.mutate(ctx, actor, bookingID, func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error) {
		if err := checkUpdateFields(caps, req); err != nil {
			return nil, err
		}

		var pending []pendingEvent

		if req.Technician != nil {
			evt, err := s.assign(bk, *req.Technician)
			if err != nil {
				return nil, err
			}
			pending = append(pending, evt)
		}

		if req.Status != nil && req.Technician == nil {
			target, err := parseStatus(*req.Status)
			if err != nil {
				return nil, err
			}
			if target != bk.Status() {
				evt, err := s.advance(bk, target)
				if err != nil {
					return nil, err
				}
				pending = append(pending, evt)
			}
		}

		if req.Images != nil {
			for _, img := range []struct {
				kind bookingDomain.ImageKind
				ref  *string
			}{
				{bookingDomain.ImageBefore, req.Images.Before},
				{bookingDomain.ImageAfter, req.Images.After},
			} {
				if img.ref == nil {
					continue
				}
				evt, err := s.attachImage(bk, img.kind, *img.ref)
				if err != nil {
					return nil, err
				}
				pending = append(pending, evt)
			}
		}

		if req.Payment != nil && req.Payment.Status != nil {
			evts, err := s.settlePayment(bk, caps, *req.Payment.Status, req.PaymentReceivedBy)
			if err != nil {
				return nil, err
			}
			pending = append(pending, evts...)
		} else if req.PaymentReceivedBy != nil {
			return nil, domain.NewValidationError("paymentReceivedBy can only be sent with a payment status")
		}

		if req.Rating != nil {
			evt, err := s.rate(bk, *req.Rating)
			if err != nil {
				return nil, err
			}
			pending = append(pending, evt)
		}

		return pending, nil
	})
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context, actor bookingDomain.Actor) (*BookingStatsDTO, error) {
	if !actor.IsAdmin() {
		return nil, domain.NewForbiddenError("admin access required")
	}
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}
	byPayment, err := s.repo.CountByPaymentStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment stats: %w", err)
	}

	var total int64
	for _, c := range byStatus {
		total += c
	}
	if byStatus == nil {
		byStatus = make(map[string]int64, len(bookingDomain.AllStatuses))
	}
	for _, st := range bookingDomain.AllStatuses {
		if _, ok := byStatus[string(st)]; !ok {
			byStatus[string(st)] = 0
		}
	}

	return &BookingStatsDTO{
		TotalBookings:   total,
		ByStatus:        byStatus,
		ByPaymentStatus: byPayment,
	}, nil
}

// mutate loads the booking, authorizes the actor and applies fn to a copy. The copy is written
// only if fn succeeds and reports a change, guarded by the version it was read at.
func (s *BookingService) mutate(
	ctx context.Context,
	actor bookingDomain.Actor,
	bookingID uuid.UUID,
	fn func(bk *bookingDomain.Booking, caps bookingDomain.Capabilities) ([]pendingEvent, error),
) (*BookingDTO, error) {
	current, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	caps, err := bookingDomain.Authorize(actor, current)
	if err != nil {
		return nil, err
	}

	bk := current.Clone()
	pending, err := fn(bk, caps)
	if err != nil {
		return nil, err
	}

	if len(pending) == 0 {
		result := toBookingDTO(current)
		return &result, nil
	}

	bk.IncrementVersion()
	if err := s.repo.Update(ctx, bk); err != nil {
		if domain.IsKind(err, domain.KindConflict) {
			s.logger.Warn("concurrent booking update rejected",
				zap.String("booking_id", bookingID.String()),
				zap.String("actor_id", actor.UserID.String()),
			)
		}
		return nil, err
	}

	for _, evt := range pending {
		s.publishEvent(ctx, bk.ID(), evt.eventType, evt.data)
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// checkUpdateFields rejects any field outside what the actor's capabilities allow.
func checkUpdateFields(caps bookingDomain.Capabilities, req UpdateBookingRequest) error {
	deny := func(field string) error {
		return domain.NewForbiddenError(fmt.Sprintf("not allowed to update %s", field))
	}

	if req.Technician != nil && !caps.IsAdmin {
		return deny("technician")
	}
	if req.Status != nil && !caps.IsAssignedTechnician && !(caps.IsAdmin && req.Technician != nil) {
		return deny("status")
	}
	if req.Images != nil && (req.Images.Before != nil || req.Images.After != nil) && !caps.IsAssignedTechnician {
		return deny("images")
	}
	if req.Payment != nil && req.Payment.Status != nil && !caps.IsAdmin && !caps.IsAssignedTechnician {
		return deny("payment.status")
	}
	if req.PaymentReceivedBy != nil && !caps.IsAssignedTechnician {
		return deny("paymentReceivedBy")
	}
	if req.Rating != nil && !caps.IsOwner {
		return deny("rating")
	}
	return nil
}

// settlePayment handles a requested payment status. Admin authority takes precedence over the
// technician's when an actor has both.
func (s *BookingService) settlePayment(bk *bookingDomain.Booking, caps bookingDomain.Capabilities, status string, receivedBy *string) ([]pendingEvent, error) {
	target, err := bookingDomain.ParsePaymentStatus(status)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	if target == bookingDomain.PaymentPending {
		if bk.Payment().IsPaid() {
			return nil, domain.NewStateConflictError("a paid payment cannot be re-opened")
		}
		return nil, domain.NewValidationError("payment status can only be set to Paid")
	}

	if caps.IsAdmin {
		if receivedBy != nil {
			return nil, domain.NewForbiddenError("not allowed to update paymentReceivedBy")
		}
		return s.approvePayment(bk)
	}

	if receivedBy != nil {
		rb, err := bookingDomain.ParseReceiver(*receivedBy)
		if err != nil {
			return nil, domain.NewValidationError(err.Error())
		}
		if rb != bookingDomain.ReceivedByTechnician {
			return nil, domain.NewForbiddenError("a technician can only record payments received by a technician")
		}
	}
	evt, err := s.confirmCash(bk)
	if err != nil {
		return nil, err
	}
	return []pendingEvent{evt}, nil
}

func (s *BookingService) assign(bk *bookingDomain.Booking, technicianID uuid.UUID) (pendingEvent, error) {
	if err := bk.AssignTechnician(technicianID); err != nil {
		return pendingEvent{}, err
	}
	return pendingEvent{events.BookingTechnicianAssigned, events.TechnicianAssignedEvent{
		BookingID:    bk.ID(),
		CustomerID:   bk.CustomerID(),
		TechnicianID: technicianID,
		OccurredAt:   s.clock(),
	}}, nil
}

func (s *BookingService) advance(bk *bookingDomain.Booking, target bookingDomain.BookingStatus) (pendingEvent, error) {
	from := bk.Status()
	if err := bk.AdvanceStatus(target); err != nil {
		return pendingEvent{}, err
	}
	return pendingEvent{events.BookingStatusChanged, events.StatusChangedEvent{
		BookingID:    bk.ID(),
		CustomerID:   bk.CustomerID(),
		TechnicianID: *bk.TechnicianID(),
		From:         string(from),
		To:           string(target),
		OccurredAt:   s.clock(),
	}}, nil
}

func (s *BookingService) attachImage(bk *bookingDomain.Booking, kind bookingDomain.ImageKind, ref string) (pendingEvent, error) {
	if err := bk.AttachImage(kind, ref); err != nil {
		return pendingEvent{}, err
	}
	images := bk.Images()
	url := images.Before
	if kind == bookingDomain.ImageAfter {
		url = images.After
	}
	return pendingEvent{events.BookingImageAttached, events.ImageAttachedEvent{
		BookingID:  bk.ID(),
		Kind:       string(kind),
		URL:        url,
		OccurredAt: s.clock(),
	}}, nil
}

func (s *BookingService) rate(bk *bookingDomain.Booking, rating int) (pendingEvent, error) {
	if err := bk.Rate(rating); err != nil {
		return pendingEvent{}, err
	}
	return pendingEvent{events.BookingRated, events.BookingRatedEvent{
		BookingID:    bk.ID(),
		CustomerID:   bk.CustomerID(),
		TechnicianID: bk.TechnicianID(),
		Rating:       rating,
		OccurredAt:   s.clock(),
	}}, nil
}

// approvePayment returns no events when the approval only acknowledges collected cash.
func (s *BookingService) approvePayment(bk *bookingDomain.Booking) ([]pendingEvent, error) {
	changed, err := bk.ApprovePayment(s.clock())
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, nil
	}
	return []pendingEvent{s.paymentConfirmed(bk)}, nil
}

func (s *BookingService) confirmCash(bk *bookingDomain.Booking) (pendingEvent, error) {
	if err := bk.ConfirmCashPayment(s.clock()); err != nil {
		return pendingEvent{}, err
	}
	return s.paymentConfirmed(bk), nil
}

func (s *BookingService) paymentConfirmed(bk *bookingDomain.Booking) pendingEvent {
	p := bk.Payment()
	return pendingEvent{events.BookingPaymentConfirmed, events.PaymentConfirmedEvent{
		BookingID:  bk.ID(),
		Method:     string(p.Method()),
		PaymentID:  p.PaymentID(),
		ReceivedBy: string(*p.ReceivedBy()),
		ReceivedAt: *p.ReceivedAt(),
		AmountDue:  bk.AmountDue(),
		Currency:   bk.Currency(),
		OccurredAt: s.clock(),
	}}
}

func (s *BookingService) publishEvent(ctx context.Context, bookingID uuid.UUID, eventType string, data interface{}) {
	if s.publisher == nil {
		return
	}

	cloudEvent, err := kafka.NewCloudEvent(events.Source, eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = bookingID.String()

	if err := s.publisher.PublishEvent(ctx, s.topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.topic),
			zap.String("event_type", eventType),
			zap.String("booking_id", bookingID.String()),
			zap.Error(err),
		)
	}
}

// --- Helpers ---

// bookingDateParser accepts full dates only. Values without a zone are read as UTC.
// "2006-01-02T15:04" is what a datetime-local input submits.
var bookingDateParser = &now.Config{
	TimeLocation: time.UTC,
	TimeFormats: []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
	},
}

func parseBookingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, domain.NewValidationError("booking date is required")
	}
	t, err := bookingDateParser.Parse(raw)
	if err != nil {
		return time.Time{}, domain.NewValidationError(fmt.Sprintf("invalid booking date: %s", raw))
	}
	return t.UTC(), nil
}

func parseStatus(raw string) (bookingDomain.BookingStatus, error) {
	status, err := bookingDomain.ParseBookingStatus(raw)
	if err != nil {
		return "", domain.NewValidationError(err.Error())
	}
	return status, nil
}

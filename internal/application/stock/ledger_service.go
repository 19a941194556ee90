package stock

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/w7-mgfcode/warehouse-management-system/internal/application/unitofwork"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/shared"
	"github.com/w7-mgfcode/warehouse-management-system/internal/domain/stock"
)

const (
	// DefaultIssueReason is used when an issue carries no explicit reason
	DefaultIssueReason = "order_fulfillment"
	// DefaultReceiveReason is used when a receipt carries no explicit reason
	DefaultReceiveReason = "supplier_delivery"
)

// fefoOverrideRoles may force an issue out of FEFO order
var fefoOverrideRoles = map[string]bool{
	"admin":   true,
	"manager": true,
}

// ErrDuplicateReference signals that a reference number was already used
var ErrDuplicateReference = shared.NewDomainError("DUPLICATE_REFERENCE", "A movement with this reference number was already recorded")

// LedgerService handles the quantity ledger operations: receive, issue,
// adjust and scrap. Every operation runs in one transaction and appends a
// movement record.
type LedgerService struct {
	scope          unitofwork.Scope
	fefo           *stock.FefoSelector
	eventPublisher shared.EventPublisher
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(scope unitofwork.Scope, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		scope:          scope,
		fefo:           stock.NewFefoSelector(),
		idempotencyTTL: shared.DefaultIdempotencyConfig().TTL,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *LedgerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables duplicate-reference rejection on receipts
// and issues that carry a reference number
func (s *LedgerService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetIdempotencyTTL overrides how long claimed reference numbers are held
func (s *LedgerService) SetIdempotencyTTL(ttl time.Duration) {
	if ttl > 0 {
		s.idempotencyTTL = ttl
	}
}

// SetClock overrides the wall clock, for tests
func (s *LedgerService) SetClock(now func() time.Time) {
	s.now = now
	s.fefo = stock.NewFefoSelectorAt(now)
}

// ReceiveGoodsCommand describes a receipt into a bin
type ReceiveGoodsCommand struct {
	BinID       uuid.UUID
	ProductID   uuid.UUID
	BatchNumber string
	Unit        string
	Quantity    decimal.Decimal
	UseByDate   time.Time
	Reference   string
	Notes       string
	OperatorID  uuid.UUID
}

// IssueGoodsCommand describes an issue from a specific bin content
type IssueGoodsCommand struct {
	BinContentID   uuid.UUID
	Quantity       decimal.Decimal
	Reason         string
	Reference      string
	ForceNonFefo   bool
	OverrideReason string
	OperatorID     uuid.UUID
	OperatorRole   string
}

// AdjustStockCommand sets the absolute quantity of a bin content
type AdjustStockCommand struct {
	BinContentID uuid.UUID
	NewQuantity  decimal.Decimal
	Reason       string
	OperatorID   uuid.UUID
}

// ScrapStockCommand writes off a bin content entirely
type ScrapStockCommand struct {
	BinContentID uuid.UUID
	Reason       string
	OperatorID   uuid.UUID
}

// LedgerResult carries the updated content and the movement it produced
type LedgerResult struct {
	Content  *stock.BinContent
	Movement *stock.Movement
}

// ReceiveGoods books stock into a bin. Receiving the same bin, product and
// batch again merges into the existing record. The bin must be active and
// must not hold a different product.
func (s *LedgerService) ReceiveGoods(ctx context.Context, cmd ReceiveGoodsCommand) (*LedgerResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if err := s.claimReference(ctx, cmd.Reference); err != nil {
		return nil, err
	}

	var result *LedgerResult
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		if err := s.checkReferenceUnused(ctx, repos, cmd.Reference); err != nil {
			return err
		}

		bin, err := repos.Bins().FindByID(ctx, cmd.BinID)
		if err != nil {
			return err
		}
		if err := bin.CanReceive(); err != nil {
			return err
		}

		contents, err := repos.Contents().FindByBin(ctx, cmd.BinID)
		if err != nil {
			return err
		}
		for _, c := range contents {
			if c.ProductID != cmd.ProductID && c.Quantity.GreaterThan(decimal.Zero) {
				return shared.ErrBinOccupied
			}
		}

		content := findMergeTarget(contents, cmd.ProductID, cmd.BatchNumber)
		var before decimal.Decimal
		if content != nil {
			if !content.SameUseBy(cmd.UseByDate) {
				return shared.NewDomainError("INVALID_INPUT", "use-by date conflicts with the existing record for this batch")
			}
			before = content.Quantity
			if err := content.AddQuantity(cmd.Quantity); err != nil {
				return err
			}
			content.IncrementVersion()
			if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
				return err
			}
		} else {
			before = decimal.Zero
			content, err = stock.NewBinContent(cmd.BinID, bin.WarehouseID, cmd.ProductID, cmd.BatchNumber, cmd.Quantity, cmd.UseByDate, s.now())
			if err != nil {
				return err
			}
			if cmd.Unit != "" {
				content.Unit = cmd.Unit
			}
			if err := repos.Contents().Save(ctx, content); err != nil {
				return err
			}
		}

		movement, err := stock.NewMovementBuilder(content, stock.MovementTypeReceipt).
			WithQuantityChange(cmd.Quantity, before, content.Quantity).
			WithReason(DefaultReceiveReason).
			WithReference(cmd.Reference).
			WithNotes(cmd.Notes).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if bin.IsEmpty() {
			bin.MarkOccupied()
			if err := repos.Bins().Save(ctx, bin); err != nil {
				return err
			}
		}

		events = collectEvents(content)
		result = &LedgerResult{Content: content, Movement: movement}
		return nil
	})
	if err != nil {
		s.releaseReference(ctx, cmd.Reference, err)
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Info("stock received",
		zap.String("bin_id", cmd.BinID.String()),
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("batch_number", cmd.BatchNumber),
		zap.String("quantity", cmd.Quantity.String()),
	)
	return result, nil
}

// IssueGoods removes stock from a bin content. The available quantity
// excludes reservations; expired stock cannot be issued; issuing out of
// FEFO order needs an explicit override by an admin or manager with a
// reason.
func (s *LedgerService) IssueGoods(ctx context.Context, cmd IssueGoodsCommand) (*LedgerResult, error) {
	if cmd.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.ErrInvalidQuantity
	}
	if err := s.claimReference(ctx, cmd.Reference); err != nil {
		return nil, err
	}

	var result *LedgerResult
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		if err := s.checkReferenceUnused(ctx, repos, cmd.Reference); err != nil {
			return err
		}

		content, err := repos.Contents().FindByID(ctx, cmd.BinContentID)
		if err != nil {
			return err
		}
		if content.Status.IsTerminal() {
			return shared.ErrAlreadyTerminal
		}
		if content.AvailableQuantity().LessThan(cmd.Quantity) {
			return shared.ErrInsufficientAvailable
		}
		if content.IsExpired(s.now()) {
			return shared.ErrProductExpired
		}

		candidates, err := repos.Contents().FindAllocatable(ctx, content.WarehouseID, content.ProductID)
		if err != nil {
			return err
		}
		compliant := s.fefo.IsCompliant(content, candidates)
		if !compliant {
			if !cmd.ForceNonFefo {
				return shared.ErrFefoViolation
			}
			if !fefoOverrideRoles[strings.ToLower(cmd.OperatorRole)] {
				return shared.ErrForbidden
			}
			if strings.TrimSpace(cmd.OverrideReason) == "" {
				return shared.ErrFefoOverrideReason
			}
		}

		before := content.Quantity
		if err := content.Issue(cmd.Quantity); err != nil {
			return err
		}
		content.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
			return err
		}

		reason := cmd.Reason
		if reason == "" {
			reason = DefaultIssueReason
		}
		builder := stock.NewMovementBuilder(content, stock.MovementTypeIssue).
			WithQuantityChange(cmd.Quantity.Neg(), before, content.Quantity).
			WithReason(reason).
			WithReference(cmd.Reference).
			WithCreatedBy(cmd.OperatorID)
		if !compliant {
			builder.WithFefoOverride(cmd.OverrideReason)
		}
		movement, err := builder.Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if err := refreshBinStatus(ctx, repos, content.BinID); err != nil {
			return err
		}

		events = collectEvents(content)
		result = &LedgerResult{Content: content, Movement: movement}
		return nil
	})
	if err != nil {
		s.releaseReference(ctx, cmd.Reference, err)
		return nil, err
	}

	s.publish(ctx, events)
	return result, nil
}

// AdjustStock corrects the balance after a physical count. The new quantity
// may not undercut the reserved amount; the movement records the signed
// delta and a mandatory reason. A count that confirms the book quantity
// appends nothing to the log, so the returned Movement is nil.
func (s *LedgerService) AdjustStock(ctx context.Context, cmd AdjustStockCommand) (*LedgerResult, error) {
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "adjustment reason is required")
	}

	var result *LedgerResult
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		content, err := repos.Contents().FindByID(ctx, cmd.BinContentID)
		if err != nil {
			return err
		}

		before := content.Quantity
		delta, err := content.AdjustTo(cmd.NewQuantity)
		if err != nil {
			return err
		}
		if delta.IsZero() {
			// Counting confirmed the book quantity, nothing to record.
			result = &LedgerResult{Content: content}
			return nil
		}
		content.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
			return err
		}

		movement, err := stock.NewMovementBuilder(content, stock.MovementTypeAdjustment).
			WithQuantityChange(delta, before, content.Quantity).
			WithReason(cmd.Reason).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if err := refreshBinStatus(ctx, repos, content.BinID); err != nil {
			return err
		}

		events = collectEvents(content)
		result = &LedgerResult{Content: content, Movement: movement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	return result, nil
}

// ScrapStock writes off an entire bin content, reservations included.
// Operators holding reservations against the batch learn about it through
// the released events, the stock itself is gone either way.
func (s *LedgerService) ScrapStock(ctx context.Context, cmd ScrapStockCommand) (*LedgerResult, error) {
	if strings.TrimSpace(cmd.Reason) == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "scrap reason is required")
	}

	var result *LedgerResult
	var events []shared.DomainEvent

	err := unitofwork.ExecuteWithRetry(ctx, s.scope, func(repos unitofwork.Repositories) error {
		content, err := repos.Contents().FindByID(ctx, cmd.BinContentID)
		if err != nil {
			return err
		}

		before := content.Quantity
		scrapped, err := content.Scrap()
		if err != nil {
			return err
		}
		content.IncrementVersion()
		if err := repos.Contents().SaveWithLock(ctx, content); err != nil {
			return err
		}

		movement, err := stock.NewMovementBuilder(content, stock.MovementTypeScrap).
			WithQuantityChange(scrapped.Neg(), before, decimal.Zero).
			WithReason(cmd.Reason).
			WithCreatedBy(cmd.OperatorID).
			Build()
		if err != nil {
			return err
		}
		if err := repos.Movements().Create(ctx, movement); err != nil {
			return err
		}

		if err := refreshBinStatus(ctx, repos, content.BinID); err != nil {
			return err
		}

		events = collectEvents(content)
		result = &LedgerResult{Content: content, Movement: movement}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events)
	s.logger.Warn("stock scrapped",
		zap.String("bin_content_id", cmd.BinContentID.String()),
		zap.String("reason", cmd.Reason),
	)
	return result, nil
}

// claimReference reserves a reference number in the idempotency store. The
// claim is a fast pre-check against concurrent duplicate submissions; the
// movement log stays the authority on which references were recorded.
func (s *LedgerService) claimReference(ctx context.Context, reference string) error {
	if s.idempotency == nil || reference == "" {
		return nil
	}
	fresh, err := s.idempotency.MarkProcessed(ctx, "movement:"+reference, s.idempotencyTTL)
	if err != nil {
		s.logger.Warn("idempotency store unavailable, continuing without duplicate check",
			zap.String("reference", reference), zap.Error(err))
		return nil
	}
	if !fresh {
		return ErrDuplicateReference
	}
	return nil
}

// releaseReference hands a claimed reference back after a failed operation,
// so a corrected retry with the same reference is not refused. A genuine
// duplicate keeps its claim: the reference exists in the movement log.
func (s *LedgerService) releaseReference(ctx context.Context, reference string, opErr error) {
	if s.idempotency == nil || reference == "" || errors.Is(opErr, ErrDuplicateReference) {
		return
	}
	if err := s.idempotency.Release(ctx, "movement:"+reference); err != nil {
		s.logger.Warn("failed to release reference claim",
			zap.String("reference", reference), zap.Error(err))
	}
}

// checkReferenceUnused rejects a reference that already appears in the
// movement log. Runs inside the operation's transaction.
func (s *LedgerService) checkReferenceUnused(ctx context.Context, repos unitofwork.Repositories, reference string) error {
	if reference == "" {
		return nil
	}
	exists, err := repos.Movements().ExistsByReference(ctx, reference)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateReference
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, events []shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Error("failed to publish domain events", zap.Error(err))
	}
}

// findMergeTarget locates an existing record of the same product and batch
func findMergeTarget(contents []stock.BinContent, productID uuid.UUID, batchNumber string) *stock.BinContent {
	for i := range contents {
		c := &contents[i]
		if c.ProductID == productID && c.BatchNumber == batchNumber && !c.Status.IsTerminal() {
			return c
		}
	}
	return nil
}

// refreshBinStatus re-derives the bin occupancy flag from its contents
func refreshBinStatus(ctx context.Context, repos unitofwork.Repositories, binID uuid.UUID) error {
	contents, err := repos.Contents().FindByBin(ctx, binID)
	if err != nil {
		return err
	}
	holdsStock := false
	for _, c := range contents {
		if c.Quantity.GreaterThan(decimal.Zero) {
			holdsStock = true
			break
		}
	}
	bin, err := repos.Bins().FindByID(ctx, binID)
	if err != nil {
		return err
	}
	if holdsStock && bin.IsEmpty() {
		bin.MarkOccupied()
		return repos.Bins().Save(ctx, bin)
	}
	if !holdsStock && !bin.IsEmpty() {
		bin.MarkEmpty()
		return repos.Bins().Save(ctx, bin)
	}
	return nil
}

// collectEvents drains pending domain events from an aggregate
func collectEvents(root shared.AggregateRoot) []shared.DomainEvent {
	events := root.GetDomainEvents()
	root.ClearDomainEvents()
	return events
}

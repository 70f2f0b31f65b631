package journal

import (
	"context"
	"database/sql"
	"time"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/metrics"
	"tradejournal/src/model"
	"tradejournal/src/repository"
)

// Actor is who performs an operation and through which channel.
type Actor struct {
	UserID  uint
	Trigger model.TriggerType
}

// User is a manual action by the given user.
func User(id uint) Actor {
	return Actor{UserID: id, Trigger: model.TriggerManual}
}

func (a Actor) validate() error {
	if a.UserID == 0 {
		return invalid("user_id", "is required")
	}
	if !a.Trigger.Valid() {
		return invalid("trigger_type", "must be one of MANUAL, SYSTEM, WEBHOOK, BROKER_API")
	}
	return nil
}

// Engine applies the order and trade lifecycle rules. Every exported
// operation runs in one database transaction: load, authorize, validate,
// compute, persist and record history either all commit or none do.
// The engine holds no state between calls besides its handle.
type Engine struct {
	db        *gorm.DB
	config    Config
	now       func() time.Time
	txOptions []*sql.TxOptions
}

type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithConfig replaces the env-derived config.
func WithConfig(config Config) Option {
	return func(e *Engine) { e.config = config }
}

// WithSerializable runs every transaction at SERIALIZABLE isolation.
func WithSerializable() Option {
	return func(e *Engine) {
		e.txOptions = []*sql.TxOptions{{Isolation: sql.LevelSerializable}}
	}
}

func NewEngine(db *gorm.DB, opts ...Option) *Engine {
	e := &Engine{
		db:     db,
		config: Config{SessionTagging: true, ExpireBatchSize: 500},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// stores bundles the repositories bound to one transaction.
type stores struct {
	accounts  *repository.AccountRepository
	positions *repository.PositionRepository
	orders    *repository.OrderRepository
	trades    *repository.TradeRepository
	exits     *repository.PartialExitRepository
	history   *repository.StatusHistoryRepository
}

func newStores(tx *gorm.DB) *stores {
	return &stores{
		accounts:  repository.NewAccountRepository(tx),
		positions: repository.NewPositionRepository(tx),
		orders:    repository.NewOrderRepository(tx),
		trades:    repository.NewTradeRepository(tx),
		exits:     repository.NewPartialExitRepository(tx),
		history:   repository.NewStatusHistoryRepository(tx),
	}
}

// transition is a committed status change, kept for metrics.
type transition struct {
	entity model.EntityType
	from   string
	to     string
}

// unitOfWork carries the per-call transaction state.
type unitOfWork struct {
	*stores
	actor       Actor
	transitions []transition
	exitTypes   []model.ExitType
	riskReward  *float64
}

// run executes fn inside one transaction and publishes metrics only after
// commit.
func (e *Engine) run(ctx context.Context, op string, actor Actor, fn func(ctx context.Context, uow *unitOfWork) error) error {
	var uow *unitOfWork

	err := actor.validate()
	if err == nil {
		err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			uow = &unitOfWork{stores: newStores(tx), actor: actor}
			return fn(ctx, uow)
		}, e.txOptions...)
	}

	log := logger.WithFields(logger.Fields{
		"service": "journal",
		"op":      op,
		"user_id": actor.UserID,
		"trigger": actor.Trigger,
	})

	if err != nil {
		kind := Kind(err)
		metrics.OperationErrors.WithLabelValues(op, kind).Inc()
		if kind == "internal" {
			log.WithError(err).Error("Operation failed")
		} else {
			log.WithError(err).WithField("kind", kind).Info("Operation rejected")
		}
		return err
	}

	for _, t := range uow.transitions {
		metrics.Transitions.WithLabelValues(string(t.entity), t.from, t.to).Inc()
	}
	for _, et := range uow.exitTypes {
		metrics.PartialExits.WithLabelValues(string(et)).Inc()
	}
	if uow.riskReward != nil {
		metrics.ClosedTradeRiskReward.Observe(*uow.riskReward)
	}

	log.Debug("Operation committed")
	return nil
}

// authorize enforces that the acting user owns the account of the position.
// Callers check existence first so a missing entity is ErrNotFound and a
// foreign one is ErrForbidden.
func (u *unitOfWork) authorize(ctx context.Context, positionID uint) error {
	ownerID, found, err := u.positions.FindOwnerUserID(ctx, positionID)
	if err != nil {
		return err
	}
	if !found {
		return ErrNotFound
	}
	if ownerID != u.actor.UserID {
		return ErrForbidden
	}
	return nil
}

// ownedAccount loads an account and checks it belongs to the acting user.
func (u *unitOfWork) ownedAccount(ctx context.Context, accountID uint) (*model.Account, error) {
	account, err := u.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrNotFound
	}
	if account.UserID != u.actor.UserID {
		return nil, ErrForbidden
	}
	return account, nil
}

// record appends a status history entry for the acting user.
func (u *unitOfWork) record(
	ctx context.Context,
	entity model.EntityType,
	entityID uint,
	previous *string,
	next string,
	details map[string]any,
) error {
	entry := &model.StatusHistoryEntry{
		EntityType:     entity,
		EntityID:       entityID,
		PreviousStatus: previous,
		NewStatus:      next,
		UserID:         u.actor.UserID,
		TriggerType:    u.actor.Trigger,
		Details:        details,
	}
	if err := u.history.Create(ctx, entry); err != nil {
		return err
	}

	from := ""
	if previous != nil {
		from = *previous
	}
	u.transitions = append(u.transitions, transition{entity: entity, from: from, to: next})
	return nil
}

func statusPtr[S ~string](s S) *string {
	v := string(s)
	return &v
}

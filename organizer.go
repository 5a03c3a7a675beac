package adminmenu

import (
	"context"
	"fmt"
	"time"

	"github.com/dmaurelc/go-adminmenu/pkg/activity"
)

// MenuProvider supplies the current baseline menu tree. Items carry their
// submenu entries as Children; the provider is consulted once per render.
type MenuProvider interface {
	Menu(ctx context.Context) ([]MenuItem, error)
}

// MenuProviderFunc adapts a function to MenuProvider.
type MenuProviderFunc func(ctx context.Context) ([]MenuItem, error)

// Menu implements MenuProvider.
func (f MenuProviderFunc) Menu(ctx context.Context) ([]MenuItem, error) {
	return f(ctx)
}

// LegacySource supplies a pre-role-scoping configuration used to seed role
// configs the first time they are read. Hosts without legacy data leave it
// unset.
type LegacySource interface {
	LegacyConfig(ctx context.Context) (OverrideConfig, bool, error)
}

// LegacySourceFunc adapts a function to LegacySource.
type LegacySourceFunc func(ctx context.Context) (OverrideConfig, bool, error)

// LegacyConfig implements LegacySource.
func (f LegacySourceFunc) LegacyConfig(ctx context.Context) (OverrideConfig, bool, error) {
	return f(ctx)
}

// Organizer wires the resolution, merge, save, and transfer surfaces around
// the host-supplied collaborators. All operations are synchronous and
// request-scoped.
type Organizer struct {
	roles     Store[OverrideConfig]
	users     Store[UserRecord]
	globals   Store[string]
	identity  IdentityProvider
	menus     MenuProvider
	legacy    LegacySource
	rules     RuleSet
	evaluator Evaluator
	cache     ProgramCache
	functions *FunctionRegistry
	logger    EvaluatorLogger
	emitter   *activity.Emitter
	metadata  map[string]any
	now       func() time.Time
}

// Option configures an Organizer.
type Option func(*Organizer)

// New constructs an Organizer. Without options it runs against in-memory
// stores and an empty identity, which is enough for tests and examples.
func New(opts ...Option) *Organizer {
	o := &Organizer{
		roles:    NewMemoryStore[OverrideConfig](),
		users:    NewMemoryStore[UserRecord](),
		globals:  NewMemoryStore[string](),
		identity: nopIdentity{},
		logger:   noopEvaluatorLogger{},
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithRoleStore sets the backend for role-scoped configs.
func WithRoleStore(store Store[OverrideConfig]) Option {
	return func(o *Organizer) {
		if store != nil {
			o.roles = store
		}
	}
}

// WithUserStore sets the backend for user-scoped records.
func WithUserStore(store Store[UserRecord]) Option {
	return func(o *Organizer) {
		if store != nil {
			o.users = store
		}
	}
}

// WithGlobalStore sets the backend for unscoped values such as the logo.
func WithGlobalStore(store Store[string]) Option {
	return func(o *Organizer) {
		if store != nil {
			o.globals = store
		}
	}
}

// WithIdentity sets the identity provider.
func WithIdentity(identity IdentityProvider) Option {
	return func(o *Organizer) {
		if identity != nil {
			o.identity = identity
		}
	}
}

// WithMenuProvider sets the baseline menu source used by RenderMenu.
func WithMenuProvider(provider MenuProvider) Option {
	return func(o *Organizer) {
		o.menus = provider
	}
}

// WithLegacySource sets the legacy configuration used to seed role configs
// on first read.
func WithLegacySource(source LegacySource) Option {
	return func(o *Organizer) {
		o.legacy = source
	}
}

// WithVisibilityRules registers per-item visibility expressions evaluated
// during RenderMenu.
func WithVisibilityRules(rules RuleSet) Option {
	return func(o *Organizer) {
		o.rules = rules.Clone()
	}
}

// WithRuleEvaluator sets the expression engine for visibility rules.
func WithRuleEvaluator(evaluator Evaluator) Option {
	return func(o *Organizer) {
		o.evaluator = evaluator
	}
}

// WithProgramCache registers a compiled-program cache for the default
// evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(o *Organizer) {
		o.cache = cache
	}
}

// WithFunctionRegistry exposes registry functions to visibility rules.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(o *Organizer) {
		if registry != nil {
			o.functions = registry.Clone()
		}
	}
}

// WithCustomFunction registers fn under name for visibility rules.
func WithCustomFunction(name string, fn Function) Option {
	return func(o *Organizer) {
		if o.functions == nil {
			o.functions = NewFunctionRegistry()
		}
		_ = o.functions.Register(name, fn)
	}
}

// WithEvaluatorLogger attaches a logger for rule evaluations.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(o *Organizer) {
		if logger == nil {
			o.logger = noopEvaluatorLogger{}
			return
		}
		o.logger = logger
	}
}

// WithRuleMetadata exposes host metadata to rule expressions.
func WithRuleMetadata(metadata map[string]any) Option {
	return func(o *Organizer) {
		if len(metadata) == 0 {
			return
		}
		o.metadata = make(map[string]any, len(metadata))
		for key, value := range metadata {
			o.metadata[key] = value
		}
	}
}

// WithActivityHooks fans configuration change events out to hooks.
func WithActivityHooks(hooks activity.Hooks) Option {
	return func(o *Organizer) {
		o.emitter = activity.NewEmitter(hooks, activity.Config{Enabled: true, Channel: "menu"})
	}
}

// WithClock overrides the time source, used for last-modified stamps and
// export timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *Organizer) {
		if clock != nil {
			o.now = clock
		}
	}
}

// RenderMenu resolves the effective configuration for userID, applies
// visibility rules, and merges the baseline tree into its final render-ready
// form, including per-parent submenu ordering. When configPage is true,
// hidden items stay visible so the configuration UI can list them.
func (o *Organizer) RenderMenu(ctx context.Context, userID string, configPage bool) (MergeResult, error) {
	if o.menus == nil {
		return MergeResult{}, ErrNoMenuProvider
	}
	items, err := o.menus.Menu(ctx)
	if err != nil {
		return MergeResult{}, fmt.Errorf("adminmenu: load menu: %w", err)
	}
	cfg, err := o.UserConfig(ctx, userID)
	if err != nil {
		return MergeResult{}, err
	}
	if extra := o.ruleHidden(ctx, userID, items); len(extra) > 0 {
		cfg = cfg.Clone()
		cfg.Hidden = append(cfg.Hidden, extra...)
	}
	result := Merge(items, cfg, configPage)
	for i := range result.Items {
		result.Items[i].Children = MergeChildren(result.Items[i].ID, result.Items[i].Children, cfg)
	}
	return result, nil
}

func (o *Organizer) emit(ctx context.Context, event activity.Event) {
	if o.emitter == nil {
		return
	}
	// Event delivery is advisory; a failing hook must not fail the
	// operation that triggered it.
	_ = o.emitter.Emit(ctx, event)
}

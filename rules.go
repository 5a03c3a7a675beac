package adminmenu

import (
	"context"
	"time"
)

// RuleSet maps a menu item id to a visibility expression. A rule that
// evaluates truthy hides the item for the rendered user; items without a
// rule are unaffected.
type RuleSet map[string]string

// Clone returns a copy detached from the original map.
func (r RuleSet) Clone() RuleSet {
	if r == nil {
		return nil
	}
	out := make(RuleSet, len(r))
	for id, expr := range r {
		out[id] = expr
	}
	return out
}

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	Snapshot any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
	ItemID   string
}

func (ctx RuleContext) withDefaultNow() RuleContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx RuleContext) withDefaultMaps() RuleContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) itemLabel() string {
	if ctx.ItemID != "" {
		return ctx.ItemID
	}
	return "unknown"
}

// Evaluator executes expressions against a rule context.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledRule, error)
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// ruleHidden evaluates the configured visibility rules against each baseline
// item and returns the ids of items whose rule came back truthy. A rule that
// fails to evaluate leaves its item visible; the failure is logged and
// rendering continues.
func (o *Organizer) ruleHidden(_ context.Context, userID string, items []MenuItem) []string {
	if len(o.rules) == 0 {
		return nil
	}
	evaluator, err := o.resolveEvaluator()
	if err != nil {
		return nil
	}

	now := o.now()
	user := map[string]any{
		"id":         userID,
		"roles":      o.identity.UserRoles(userID),
		"privileged": o.identity.IsPrivileged(userID),
	}

	var hidden []string
	for _, item := range items {
		expr, ok := o.rules[item.ID]
		if !ok || expr == "" {
			continue
		}
		ctx := RuleContext{
			Snapshot: map[string]any{
				"user": user,
				"item": map[string]any{
					"id":         item.ID,
					"title":      item.Title,
					"capability": item.Capability,
				},
			},
			Now:      &now,
			Metadata: o.metadata,
			ItemID:   item.ID,
		}
		start := time.Now()
		value, evalErr := evaluator.Evaluate(ctx, expr)
		duration := time.Since(start)
		evalErr = wrapEvaluationError("", expr, ctx.itemLabel(), evalErr)
		o.logger.LogEvaluation(EvaluatorLogEvent{
			Engine:   evaluatorEngineName(evaluator),
			Expr:     expr,
			Item:     ctx.itemLabel(),
			Duration: duration,
			Err:      evalErr,
		})
		if evalErr != nil {
			continue
		}
		if truthy(value) {
			hidden = append(hidden, item.ID)
		}
	}
	return hidden
}

func (o *Organizer) resolveEvaluator() (Evaluator, error) {
	if o.evaluator != nil {
		return o.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if o.cache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(o.cache))
	}
	if o.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(o.functions))
	}
	defaultEvaluator := NewExprEvaluator(exprOpts...)
	if defaultEvaluator == nil {
		return nil, ErrNoEvaluator
	}
	o.evaluator = defaultEvaluator
	return defaultEvaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	default:
		return "custom"
	}
}

// truthy applies loose truthiness to rule results: nil, false, zero numbers,
// and empty strings are false, everything else true.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

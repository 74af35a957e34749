package rules

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/fairyhq/fairy/internal/domain"
	"github.com/fairyhq/fairy/internal/domain/check"
)

// TypeRowExpression evaluates a CEL expression against every row.
const TypeRowExpression = "row_expression"

// costLimit bounds the work a single row evaluation may do.
const costLimit = 10000

// rowEnv declares one variable, row, mapping column names to cell text.
var rowEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(cel.Variable("row", cel.MapType(cel.StringType, cel.StringType)))
})

// RowExpression reports rows for which a boolean CEL expression is false,
// for example `row.layout != "PAIRED" || int(row.read_length) >= 50`.
type RowExpression struct {
	Expression string `json:"expression"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	Table      string `json:"table"`

	prg cel.Program
}

func (RowExpression) Type() string { return TypeRowExpression }

func (c RowExpression) Evaluate(in Inputs) []domain.Issue {
	return check.RowPredicate(in.table(c.Table), c.accept, c.Severity, c.Message)
}

func (c RowExpression) accept(row map[string]string) (bool, error) {
	out, _, err := c.prg.Eval(map[string]any{"row": row})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("expression returned %v, not bool", out.Type())
	}
	return ok, nil
}

func parseRowExpression(raw map[string]any) (Check, error) {
	c := RowExpression{Severity: domain.SeverityError, Table: TableSamples}
	if err := decodeParams(raw, &c); err != nil {
		return nil, err
	}
	if c.Expression == "" {
		return nil, fmt.Errorf("%s requires expression", TypeRowExpression)
	}
	if c.Severity != domain.SeverityError && c.Severity != domain.SeverityWarning {
		return nil, fmt.Errorf("severity must be %q or %q (got %q)", domain.SeverityError, domain.SeverityWarning, c.Severity)
	}
	if err := validTable(c.Table); err != nil {
		return nil, err
	}

	env, err := rowEnv()
	if err != nil {
		return nil, fmt.Errorf("creating expression environment: %w", err)
	}
	ast, issues := env.Compile(c.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling expression: %w", issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression must return bool, not %v", ast.OutputType())
	}
	if c.prg, err = env.Program(ast, cel.CostLimit(costLimit)); err != nil {
		return nil, fmt.Errorf("building expression program: %w", err)
	}
	return c, nil
}

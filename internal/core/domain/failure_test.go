package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/core/domain"
)

func TestTaskError(t *testing.T) {
	cause := errors.New("lint error")
	err := error(&domain.TaskError{Task: "scsslint", Path: "css/1:scsslint", Err: cause})

	assert.Equal(t, `task "scsslint" failed: lint error`, err.Error())
	require.ErrorIs(t, err, domain.ErrTaskExecutionFailed)
	require.ErrorIs(t, err, cause)

	var te *domain.TaskError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "css/1:scsslint", te.Metadata()["path"])
}

func TestFailure_Series(t *testing.T) {
	cause := &domain.TaskError{Task: "b", Path: "s/2:b", Err: errors.New("lint error")}
	err := error(&domain.Failure{Node: "s", Path: "s", Kind: domain.KindSeries, Index: 2, Total: 3, Causes: []error{cause}})

	assert.Equal(t, `series "s" failed at step 2 of 3: task "b" failed: lint error`, err.Error())
	require.ErrorIs(t, err, domain.ErrAggregateFailure)
	require.ErrorIs(t, err, domain.ErrTaskExecutionFailed)
}

func TestFailure_ParallelCarriesAllCauses(t *testing.T) {
	a := &domain.TaskError{Task: "a", Path: "p/1:a", Err: errors.New("boom a")}
	c := &domain.TaskError{Task: "c", Path: "p/3:c", Err: errors.New("boom c")}
	err := error(&domain.Failure{Node: "p", Path: "p", Kind: domain.KindParallel, Total: 3, Causes: []error{a, c}})

	assert.Equal(t, `parallel "p" failed (2 of 3 steps): task "a" failed: boom a; task "c" failed: boom c`, err.Error())
	assert.Equal(t, []*domain.TaskError{a, c}, domain.FailedTasks(err))
}

func TestFailedTasks_Nested(t *testing.T) {
	a := &domain.TaskError{Task: "a", Err: errors.New("x")}
	b := &domain.TaskError{Task: "b", Err: errors.New("y")}
	inner := &domain.Failure{Node: "p", Kind: domain.KindParallel, Total: 2, Causes: []error{a, b}}
	outer := &domain.Failure{Node: "s", Kind: domain.KindSeries, Index: 1, Total: 2, Causes: []error{inner}}
	wrapped := errors.Join(domain.ErrBuildExecutionFailed, outer)

	assert.Equal(t, []*domain.TaskError{a, b}, domain.FailedTasks(wrapped))
	assert.Empty(t, domain.FailedTasks(nil))
}

package telemetry

import (
	"context"
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"todoref/internal/core/domain"
)

func TestAppMetrics_ObserveTodos(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())

	metrics.ObserveTodos([]domain.Todo{
		{ID: "1", Status: domain.TodoStatusOpen},
		{ID: "2", Status: domain.TodoStatusDone},
		{ID: "3", Status: domain.TodoStatusDeleted},
		{ID: "4", Status: domain.TodoStatusOpen},
	})

	Expect(testutil.ToFloat64(metrics.todosByStatus.WithLabelValues("open"))).To(Equal(2.0))
	Expect(testutil.ToFloat64(metrics.todosByStatus.WithLabelValues("done"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.todosByStatus.WithLabelValues("deleted"))).To(Equal(1.0))

	metrics.ObserveTodos(nil)

	Expect(testutil.ToFloat64(metrics.todosByStatus.WithLabelValues("open"))).To(Equal(0.0))
}

func TestAppMetrics_RecordTodoOperation(t *testing.T) {
	RegisterTestingT(t)

	metrics := NewAppMetrics(prometheus.NewRegistry())
	ctx := context.Background()

	metrics.RecordTodoOperation(ctx, "create", nil)
	metrics.RecordTodoOperation(ctx, "update", errors.New("boom"))

	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("create", "ok"))).To(Equal(1.0))
	Expect(testutil.ToFloat64(metrics.todoOperations.WithLabelValues("update", "error"))).To(Equal(1.0))
}

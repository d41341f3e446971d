package service

import (
	"context"
	"testing"

	. "github.com/onsi/gomega"

	"noteflow/internal/core/domain"
	"noteflow/internal/core/model/response"
)

type stubTaskService struct {
	onRange func(ctx context.Context, owner, from, to string) ([]domain.Task, error)
}

func (s *stubTaskService) ListWithPagination(ctx context.Context, owner string, limit int, cursor string) (*response.CursorResponse, error) {
	return nil, nil
}

func (s *stubTaskService) List(ctx context.Context, owner string) ([]domain.Task, error) {
	return nil, nil
}

func (s *stubTaskService) ListByDeadlineRange(ctx context.Context, owner string, from, to string) ([]domain.Task, error) {
	return s.onRange(ctx, owner, from, to)
}

func (s *stubTaskService) Create(ctx context.Context, owner string, fields map[string]any) (domain.Task, error) {
	return domain.Task{}, nil
}

func (s *stubTaskService) Update(ctx context.Context, owner, uid string, fields map[string]any) (domain.Task, error) {
	return domain.Task{}, nil
}

func (s *stubTaskService) ToggleComplete(ctx context.Context, owner, uid string, completed bool) (domain.Task, error) {
	return domain.Task{}, nil
}

func (s *stubTaskService) Delete(ctx context.Context, owner, uid string) error {
	return nil
}

func TestDeadlineWindowCurrentLoad(t *testing.T) {
	RegisterTestingT(t)

	stub := &stubTaskService{
		onRange: func(ctx context.Context, owner, from, to string) ([]domain.Task, error) {
			return []domain.Task{{Title: "In range"}}, nil
		},
	}

	window := NewDeadlineWindow(stub)

	tasks, current, err := window.Load(context.Background(), "owner-1", "2024-01-01", "2024-01-31")

	Expect(err).ToNot(HaveOccurred())
	Expect(current).To(BeTrue())
	Expect(len(tasks)).To(Equal(1))
}

func TestDeadlineWindowScopesSequencePerOwner(t *testing.T) {
	RegisterTestingT(t)

	var window *DeadlineWindow
	nested := false

	stub := &stubTaskService{}
	stub.onRange = func(ctx context.Context, owner, from, to string) ([]domain.Task, error) {
		// Another owner loads their own window while this one is in
		// flight; that must not supersede this owner's load.
		if !nested {
			nested = true
			window.Load(ctx, "owner-2", "2024-02-01", "2024-02-29")
		}
		return []domain.Task{{Title: from}}, nil
	}

	window = NewDeadlineWindow(stub)

	tasks, current, err := window.Load(context.Background(), "owner-1", "2024-01-01", "2024-01-31")

	Expect(err).ToNot(HaveOccurred())
	Expect(current).To(BeTrue())
	Expect(len(tasks)).To(Equal(1))
}

func TestDeadlineWindowDiscardsStaleLoad(t *testing.T) {
	RegisterTestingT(t)

	var window *DeadlineWindow
	nested := false

	stub := &stubTaskService{}
	stub.onRange = func(ctx context.Context, owner, from, to string) ([]domain.Task, error) {
		// The first load races a window change: a newer load starts
		// and finishes while this one is still in flight.
		if !nested {
			nested = true
			window.Load(ctx, owner, "2024-02-01", "2024-02-29")
		}
		return []domain.Task{{Title: from}}, nil
	}

	window = NewDeadlineWindow(stub)

	tasks, current, err := window.Load(context.Background(), "owner-1", "2024-01-01", "2024-01-31")

	Expect(err).ToNot(HaveOccurred())
	Expect(current).To(BeFalse())
	Expect(tasks).To(BeNil())
}

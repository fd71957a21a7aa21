package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/leave"
)

type LeaveRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]leave.LeaveRequest
	locks    *keyedMutex
	now      func() time.Time
}

func NewLeaveRequestRepository() *LeaveRequestRepository {
	return &LeaveRequestRepository{
		requests: make(map[string]leave.LeaveRequest),
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

func cloneRequest(r leave.LeaveRequest) leave.LeaveRequest {
	if r.Reviewer != nil {
		rev := *r.Reviewer
		r.Reviewer = &rev
	}
	return r
}

func (s *LeaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	request.CreatedAt = now
	request.UpdatedAt = now
	s.requests[request.ID] = cloneRequest(request)

	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.requests, request.ID)
	})
	return request, nil
}

func (s *LeaveRequestRepository) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.requests[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(s.requests, id)
	return nil
}

func (s *LeaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return cloneRequest(r), nil
}

func (s *LeaveRequestRepository) GetByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	out := s.filter(func(r leave.LeaveRequest) bool { return r.EmployeeID == employeeID })
	sortNewestFirst(out)
	return out, nil
}

func (s *LeaveRequestRepository) GetActiveByEmployeeID(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	out := s.filter(func(r leave.LeaveRequest) bool { return r.EmployeeID == employeeID && r.IsActive() })
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *LeaveRequestRepository) GetByBranchID(ctx context.Context, branchID string) ([]leave.LeaveRequest, error) {
	out := s.filter(func(r leave.LeaveRequest) bool { return r.BranchID == branchID })
	sortNewestFirst(out)
	return out, nil
}

func (s *LeaveRequestRepository) filter(match func(r leave.LeaveRequest) bool) []leave.LeaveRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []leave.LeaveRequest{}
	for _, r := range s.requests {
		if match(r) {
			out = append(out, cloneRequest(r))
		}
	}
	return out
}

func sortNewestFirst(requests []leave.LeaveRequest) {
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
}

func (s *LeaveRequestRepository) UpdateStatus(ctx context.Context, id string, from []leave.LeaveRequestStatus, status leave.LeaveRequestStatus, reviewer *leave.Reviewer) (leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	allowed := false
	for _, f := range from {
		if r.Status == f {
			allowed = true
			break
		}
	}
	if !allowed {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	previous := cloneRequest(r)
	onRollback(ctx, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.requests[id] = previous
	})

	r.Status = status
	if reviewer != nil {
		rev := *reviewer
		r.Reviewer = &rev
	}
	r.UpdatedAt = s.now()
	s.requests[id] = r
	return cloneRequest(r), nil
}

func (s *LeaveRequestRepository) LockEmployee(ctx context.Context, employeeID string) error {
	return s.locks.lock(ctx, "leave:"+employeeID)
}

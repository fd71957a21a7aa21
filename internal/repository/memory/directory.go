// Package memory holds in-process implementations of the repositories with
// the same atomicity guarantees as the PostgreSQL ones.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/storeshift/hris-backend-go/internal/domain/employee"
)

type Directory struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
	branches  map[string]employee.Branch
}

func NewDirectory() *Directory {
	return &Directory{
		employees: make(map[string]employee.Employee),
		branches:  make(map[string]employee.Branch),
	}
}

// PutEmployee inserts or replaces an employee record.
func (d *Directory) PutEmployee(e employee.Employee) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.employees[e.ID] = e
}

// PutBranch inserts or replaces a branch record.
func (d *Directory) PutBranch(b employee.Branch) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.branches[b.ID] = b
}

func (d *Directory) GetEmployee(ctx context.Context, id string) (employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	e, ok := d.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (d *Directory) GetEmployees(ctx context.Context, ids []string) (map[string]employee.Employee, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	result := make(map[string]employee.Employee, len(ids))
	for _, id := range ids {
		if e, ok := d.employees[id]; ok {
			result[id] = e
		}
	}
	return result, nil
}

func (d *Directory) GetBranch(ctx context.Context, id string) (employee.Branch, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	b, ok := d.branches[id]
	if !ok {
		return employee.Branch{}, employee.ErrBranchNotFound
	}
	return b, nil
}

func (d *Directory) UpdateEmployee(ctx context.Context, id string, req employee.UpdateEmployeeRequest) error {
	if req.Empty() {
		return employee.ErrNoFieldsToUpdate
	}
	return d.modify(id, func(e *employee.Employee) error {
		if req.Name != nil && *req.Name != "" {
			e.Name = *req.Name
		}
		if req.BranchID != nil {
			e.BranchID = *req.BranchID
		}
		if req.AnnualLeaveBalance != nil {
			e.AnnualLeaveBalance = *req.AnnualLeaveBalance
		}
		if req.WorkDays != nil {
			e.WorkDays = *req.WorkDays
		}
		if req.Status != nil && *req.Status != "" {
			e.Status = *req.Status
		}
		return nil
	})
}

func (d *Directory) DeductLeaveBalance(ctx context.Context, id string, days int) error {
	if days <= 0 {
		return employee.ErrInvalidLeaveDays
	}
	err := d.modify(id, func(e *employee.Employee) error {
		if e.AnnualLeaveBalance < days {
			return employee.ErrInsufficientBalance
		}
		e.AnnualLeaveBalance -= days
		return nil
	})
	if err == nil {
		d.undoWith(ctx, id, func(e *employee.Employee) { e.AnnualLeaveBalance += days })
	}
	return err
}

func (d *Directory) RefundLeaveBalance(ctx context.Context, id string, days int) error {
	if days <= 0 {
		return employee.ErrInvalidLeaveDays
	}
	err := d.modify(id, func(e *employee.Employee) error {
		e.AnnualLeaveBalance += days
		return nil
	})
	if err == nil {
		d.undoWith(ctx, id, func(e *employee.Employee) { e.AnnualLeaveBalance -= days })
	}
	return err
}

func (d *Directory) IncrementWorkDays(ctx context.Context, id string) error {
	err := d.modify(id, func(e *employee.Employee) error {
		e.WorkDays++
		return nil
	})
	if err == nil {
		d.undoWith(ctx, id, func(e *employee.Employee) { e.WorkDays-- })
	}
	return err
}

// undoWith reverts a counter change if the surrounding unit of work fails.
func (d *Directory) undoWith(ctx context.Context, id string, revert func(e *employee.Employee)) {
	onRollback(ctx, func() {
		_ = d.modify(id, func(e *employee.Employee) error {
			revert(e)
			return nil
		})
	})
}

// modify applies fn to a copy of the employee and stores it only if fn succeeds.
func (d *Directory) modify(id string, fn func(e *employee.Employee) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if err := fn(&e); err != nil {
		return err
	}
	e.UpdatedAt = time.Now()
	d.employees[id] = e
	return nil
}

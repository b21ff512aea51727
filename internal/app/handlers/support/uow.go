package support

import (
	"context"

	"airbrb/internal/app/uow"
)

// BeginReadOnlyUnit joins the unit already in ctx or opens a read-only one. cleanup is nil
// when an outer unit is joined; the owner of that unit ends it.
func BeginReadOnlyUnit(ctx context.Context, factory uow.UoWFactory) (unit uow.UnitOfWork, execCtx context.Context, cleanup func(), err error) {
	if current, ok := uow.FromContext(ctx); ok {
		return current, ctx, nil, nil
	}
	if factory == nil {
		return nil, ctx, nil, uow.ErrUnitOfWorkMissing
	}
	unit, err = factory.Begin(ctx, uow.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, ctx, nil, err
	}
	execCtx = uow.Attach(ctx, unit)
	// Read-only units never commit.
	return unit, execCtx, func() { _ = unit.Rollback(execCtx) }, nil
}

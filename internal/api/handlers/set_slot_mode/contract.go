package set_slot_mode

import (
	"context"

	setSlotMode "github.com/m04kA/SMC-TutorBooking/internal/usecase/set_slot_mode"
)

type SetSlotModeUseCase interface {
	Execute(ctx context.Context, req *setSlotMode.Request) (*setSlotMode.Response, error)
	Toggle(ctx context.Context, req *setSlotMode.Request) (*setSlotMode.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

package copy_forward

import (
	"context"

	copyForward "github.com/m04kA/SMC-TutorBooking/internal/usecase/copy_forward"
)

type CopyForwardUseCase interface {
	Execute(ctx context.Context, req *copyForward.Request) (*copyForward.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

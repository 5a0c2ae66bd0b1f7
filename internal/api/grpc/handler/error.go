package handler

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/tasktracker-server/internal/model"
)

func handleError(err error) error {
	var code codes.Code
	switch model.KindOf(err) {
	case model.KindValidation:
		code = codes.InvalidArgument
	case model.KindAuthentication:
		code = codes.Unauthenticated
	case model.KindNotFound:
		code = codes.NotFound
	case model.KindConflict:
		code = codes.AlreadyExists
	default:
		code = codes.Internal
	}
	return status.Error(code, model.MessageOf(err))
}

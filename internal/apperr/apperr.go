package apperr

import (
	"errors"
	"fmt"
)

// 错误分三类：未认证(401) / 客户端错误(400) / 内部错误(500)
var ErrUnauthorized = errors.New("unauthorized")

// BadRequest 携带可直接返回给客户端的具体原因
type BadRequest struct {
	Msg string
}

func (e *BadRequest) Error() string { return e.Msg }

func BadRequestf(format string, args ...interface{}) error {
	return &BadRequest{Msg: fmt.Sprintf(format, args...)}
}

// Internal 完整内容只写日志，响应体统一为不透明消息
type Internal struct {
	Err error
}

func (e *Internal) Error() string { return e.Err.Error() }

func (e *Internal) Unwrap() error { return e.Err }

func Internalf(format string, args ...interface{}) error {
	return &Internal{Err: fmt.Errorf(format, args...)}
}

func Internalize(err error) error {
	if err == nil {
		return nil
	}
	var br *BadRequest
	var in *Internal
	if errors.As(err, &br) || errors.As(err, &in) || errors.Is(err, ErrUnauthorized) {
		return err
	}
	return &Internal{Err: err}
}

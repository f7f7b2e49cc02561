package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrModuleNotFound     = errors.New("module not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrSchemeNotFound     = errors.New("marking scheme not found")
	ErrSchemeExists       = errors.New("marking scheme already exists for this assignment")
	ErrDuplicateUpload    = errors.New("an identical file has already been uploaded")
	ErrGradingLockTimeout = errors.New("timed out waiting for concurrent grading to finish")
)

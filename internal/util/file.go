package util

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"
)

// HashFile 计算上传文件的 SHA-256，用于重复提交去重
func HashFile(reader io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, reader); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// IsAllowedSubmissionFile 按扩展名校验作答文件
func IsAllowedSubmissionFile(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedSubmissionExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

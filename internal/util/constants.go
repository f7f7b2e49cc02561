package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 作答文件相关常量
const (
	MimeText        = "text/plain"
	MimePDF         = "application/pdf"
	MimeDocx        = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeOctetStream = "application/octet-stream"
)

var (
	AllowedSubmissionExtensions = []string{".txt", ".pdf", ".docx"}
)

package domain

// SubjectType differentiates end-user principals from automation actors.
type SubjectType string

const (
	SubjectTypeUser   SubjectType = "USER"
	SubjectTypeSystem SubjectType = "SYSTEM"
)

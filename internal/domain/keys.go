package domain

type CtxKey string

const (
	KeyUserID    CtxKey = "UserID"
	KeyProfileID CtxKey = "ProfileID"
	KeyUserEmail CtxKey = "Email"
)

package handler

type ContextKey string

var (
	RoleCtxKey           ContextKey = "role"
	SubCtxKey            ContextKey = "sub"
	MyInfoCtx            ContextKey = "myInfo"
	UserInfoCtx          ContextKey = "userInfo"
	UnitCtx              ContextKey = "unit"
	DoctorCtx            ContextKey = "doctor"
	MacroPeriodCtx       ContextKey = "macroPeriod"
	PublicMacroPeriodCtx ContextKey = "publicMacroPeriod"
)

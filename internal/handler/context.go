package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	MyInfoCtx    ContextKey = "myInfo"
	AdminInfoCtx ContextKey = "adminInfo"
	WorkerCtx    ContextKey = "worker"
	ServiceCtx   ContextKey = "service"
	BookingCtx   ContextKey = "booking"
)

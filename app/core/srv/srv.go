package srv

type ApplyFunc func(*Srv)

type Srv struct {
	ai   *AISrv
	rbac *RBACSrv
}

func SetupSrvs(opts ...ApplyFunc) *Srv {
	srv := &Srv{
		rbac: SetupRBACSrv(),
	}
	for _, opt := range opts {
		opt(srv)
	}
	return srv
}

func (s *Srv) AI() *AISrv {
	return s.ai
}

func (s *Srv) RBAC() *RBACSrv {
	return s.rbac
}

package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

// Single-tenant RBAC: two roles, policy compiled in. The model matches
// role -> object -> action triples.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
`

var policies = [][]string{
	// employees may manage their own leave and read their own data
	{RoleEmployee, "leave", "create"},
	{RoleEmployee, "leave", "read"},
	{RoleEmployee, "leave", "cancel"},
	{RoleEmployee, "leave_balance", "read"},
	{RoleEmployee, "attendance", "read"},
	{RoleEmployee, "dashboard", "read"},

	// admins administer everything
	{RoleAdmin, "employee", "create"},
	{RoleAdmin, "employee", "read"},
	{RoleAdmin, "employee", "update"},
	{RoleAdmin, "employee", "delete"},
	{RoleAdmin, "leave", "read"},
	{RoleAdmin, "leave", "read_all"},
	{RoleAdmin, "leave", "approve"},
	{RoleAdmin, "leave_balance", "read_all"},
	{RoleAdmin, "attendance", "read_all"},
	{RoleAdmin, "attendance", "generate"},
	{RoleAdmin, "attendance", "export"},
	{RoleAdmin, "dashboard", "read_all"},
}

//go:generate mockgen -source=rbac.go -destination=mock/rbac_mock.go -package=mock
type Service interface {
	Authorize(role, object, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
}

func NewService() (Service, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Authorize(role, object, action string) (bool, error) {
	return s.enforcer.Enforce(role, object, action)
}

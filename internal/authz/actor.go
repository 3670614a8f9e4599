package authz

// Actor is the pre-resolved view of a user that policies decide against: a
// stable identity key, the assigned roles, and the already-computed effective
// permission set. Policies never recompute the permission union themselves.
type Actor struct {
	ID    int64
	roles map[Role]struct{}
	perms PermissionSet
}

// NewActor builds an actor from an identity, its roles, and its effective
// permissions. The permission slice is expected to already be the union of
// role-granted and directly-granted permissions.
func NewActor(id int64, roles []Role, perms []Permission) Actor {
	roleSet := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}
	return Actor{ID: id, roles: roleSet, perms: NewPermissionSet(perms...)}
}

// ResolveActor derives the effective permission set for the given roles from
// the bindings, merges any direct grants, and returns the actor. Unknown
// roles surface ErrUnknownRole.
func ResolveActor(b Bindings, id int64, roles []Role, direct ...Permission) (Actor, error) {
	perms := make(PermissionSet)
	for _, role := range roles {
		set, err := b.PermissionsFor(role)
		if err != nil {
			return Actor{}, err
		}
		for p := range set {
			perms[p] = struct{}{}
		}
	}
	for _, p := range direct {
		perms[p] = struct{}{}
	}
	roleSet := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}
	return Actor{ID: id, roles: roleSet, perms: perms}, nil
}

// Can reports whether the actor holds the permission.
func (a Actor) Can(p Permission) bool {
	return a.perms.Has(p)
}

// HasRole reports whether the actor holds the role.
func (a Actor) HasRole(r Role) bool {
	_, ok := a.roles[r]
	return ok
}

// HasAnyRole reports whether the actor holds at least one of the roles.
func (a Actor) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}

// Roles returns the actor's assigned roles in catalog order.
func (a Actor) Roles() []Role {
	out := make([]Role, 0, len(a.roles))
	for _, role := range AllRoles() {
		if _, ok := a.roles[role]; ok {
			out = append(out, role)
		}
	}
	return out
}

// Permissions returns the actor's effective permissions sorted by identifier.
func (a Actor) Permissions() []Permission {
	return a.perms.Slice()
}

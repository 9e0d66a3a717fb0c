package models

// Permission is one grantable capability within an organization.
type Permission string

// Administrative permissions. These govern organization management and are
// evaluated against the caller's assumed roles only.
const (
	PermRoleNew     Permission = "ROLE_NEW"
	PermRoleDown    Permission = "ROLE_DOWN"
	PermRoleUp      Permission = "ROLE_UP"
	PermRoleMod     Permission = "ROLE_MOD"
	PermRoleACL     Permission = "ROLE_ACL"
	PermSubjectNew  Permission = "SUBJECT_NEW"
	PermSubjectDown Permission = "SUBJECT_DOWN"
	PermSubjectUp   Permission = "SUBJECT_UP"
	PermDocNew      Permission = "DOC_NEW"
)

// Document-scoped permissions. These additionally require a matching entry in
// the document's ACL for one of the caller's assumed roles.
const (
	PermDocACL    Permission = "DOC_ACL"
	PermDocRead   Permission = "DOC_READ"
	PermDocDelete Permission = "DOC_DELETE"
)

// AdministrativePermissions returns the full administrative set, the set the
// managers role always holds.
func AdministrativePermissions() []Permission {
	return []Permission{
		PermRoleNew, PermRoleDown, PermRoleUp, PermRoleMod, PermRoleACL,
		PermSubjectNew, PermSubjectDown, PermSubjectUp, PermDocNew,
	}
}

// AllPermissions returns every known permission. The managers role is
// bootstrapped with this set so the organization creator can operate on
// documents immediately; per-document access is still refined by ACLs.
func AllPermissions() []Permission {
	return append(AdministrativePermissions(), DocumentPermissions()...)
}

// DocumentPermissions returns the document-scoped set.
func DocumentPermissions() []Permission {
	return []Permission{PermDocACL, PermDocRead, PermDocDelete}
}

// IsValid reports whether p is a known permission.
func (p Permission) IsValid() bool {
	switch p {
	case PermRoleNew, PermRoleDown, PermRoleUp, PermRoleMod, PermRoleACL,
		PermSubjectNew, PermSubjectDown, PermSubjectUp, PermDocNew,
		PermDocACL, PermDocRead, PermDocDelete:
		return true
	}
	return false
}

// IsDocumentScoped reports whether p requires a document ACL match.
func (p Permission) IsDocumentScoped() bool {
	switch p {
	case PermDocACL, PermDocRead, PermDocDelete:
		return true
	}
	return false
}

// IsAdministrative reports whether p belongs to the administrative set.
func (p Permission) IsAdministrative() bool {
	return p.IsValid() && !p.IsDocumentScoped()
}

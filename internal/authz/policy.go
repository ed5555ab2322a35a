package authz

import "github.com/hahnsoftware/emp-records-api/internal/models"

// Policy decisions are pure functions over the actor's role (and department,
// for manager instance checks). Every rule defaults to deny: an operation is
// only permitted when a branch below explicitly grants it.

// CanViewEmployees reports whether the actor may list all employees.
func CanViewEmployees(actor Actor) bool {
	switch actor.Role {
	case models.RoleAdministrator, models.RoleHRPersonnel, models.RoleManager:
		return true
	}
	return false
}

// CanViewEmployee reports whether the actor may view one employee record.
// Managers are limited to employees in their own department.
func CanViewEmployee(actor Actor, target models.Employee) bool {
	switch actor.Role {
	case models.RoleAdministrator, models.RoleHRPersonnel:
		return true
	case models.RoleManager:
		return sameDepartment(actor.DepartmentID, target.DepartmentID)
	}
	return false
}

// CanCreateEmployee reports whether the actor may create employee records.
func CanCreateEmployee(actor Actor) bool {
	return actor.Role == models.RoleAdministrator || actor.Role == models.RoleHRPersonnel
}

// CanUpdateEmployee reports whether the actor may update the target employee.
// Managers are limited to employees in their own department.
func CanUpdateEmployee(actor Actor, target models.Employee) bool {
	switch actor.Role {
	case models.RoleAdministrator, models.RoleHRPersonnel:
		return true
	case models.RoleManager:
		return sameDepartment(actor.DepartmentID, target.DepartmentID)
	}
	return false
}

// CanDeleteEmployee reports whether the actor may delete employee records.
func CanDeleteEmployee(actor Actor) bool {
	return actor.Role == models.RoleAdministrator || actor.Role == models.RoleHRPersonnel
}

// CanViewDepartments reports whether the actor may list departments. Every
// authenticated role needs the department directory to render employee data.
func CanViewDepartments(actor Actor) bool {
	return actor.Role.Valid()
}

// CanManageDepartments reports whether the actor may create, update or delete
// departments. Restricted to administrators.
func CanManageDepartments(actor Actor) bool {
	return actor.Role == models.RoleAdministrator
}

// CanViewAuditLog reports whether the actor may read the audit trail.
func CanViewAuditLog(actor Actor) bool {
	return actor.Role == models.RoleAdministrator
}

// sameDepartment matches by exact identifier equality and fails closed when
// either side has no department.
func sameDepartment(a, b *uint) bool {
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}

package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hahnsoftware/emp-records-api/internal/dto"
	"github.com/hahnsoftware/emp-records-api/internal/models"
)

func seedDepartment(t *testing.T, departments *memoryDepartmentRepo, name string) models.Department {
	t.Helper()
	department := models.Department{Name: name}
	require.NoError(t, departments.Create(context.Background(), &department))
	return department
}

func createRequest(departmentID uint) dto.EmployeeCreateRequest {
	return dto.EmployeeCreateRequest{
		EmployeeID:   "E100",
		FullName:     "Ann Lee",
		Username:     "alee",
		Password:     "correct-horse",
		Role:         "EMPLOYEE",
		JobTitle:     "Engineer",
		DepartmentID: departmentID,
		HireDate:     "2023-03-15",
		Status:       "ACTIVE",
		Email:        "ann.lee@example.com",
		Phone:        "555-0100",
		Address:      "12 Main St",
	}
}

func TestCreateEmployeeWritesOneAuditEntry(t *testing.T) {
	_, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	ctx := actorContext(99, models.RoleHRPersonnel, nil)
	created, err := svc.Create(ctx, createRequest(dept.ID))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	require.Len(t, auditRepo.entries, 1)
	entry := auditRepo.entries[0]
	require.Equal(t, models.AuditActionCreate, entry.Action)
	require.Equal(t, models.AuditEntityEmployee, entry.EntityType)
	require.Equal(t, created.ID, entry.EntityID)
	require.Equal(t, uint(99), *entry.ActorID)
	require.Contains(t, entry.Changes, "Employee ID: E100")
	require.Contains(t, entry.Changes, "Password: [Hidden]")
	require.NotContains(t, entry.Changes, "correct-horse")
}

func TestCreateEmployeeDeniedLeavesNoTrace(t *testing.T) {
	employees, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	for _, role := range []models.Role{models.RoleEmployee, models.RoleManager} {
		ctx := actorContext(1, role, ptrUint(dept.ID))
		_, err := svc.Create(ctx, createRequest(dept.ID))
		require.ErrorIs(t, err, ErrPermissionDenied)
	}

	require.Empty(t, employees.employees)
	require.Empty(t, auditRepo.entries)
}

func TestCreateEmployeeAggregatesValidationErrors(t *testing.T) {
	_, departments, _, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	req := createRequest(dept.ID)
	req.EmployeeID = strings.Repeat("X", 25)
	req.FullName = ""
	req.Email = "not-an-email"
	req.HireDate = "someday"

	_, err := svc.Create(actorContext(1, models.RoleAdministrator, nil), req)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, ve.Messages, "Employee ID cannot be longer than 20 characters")
	require.Contains(t, ve.Messages, "Full name is required")
	require.Contains(t, ve.Messages, "Email must be a valid email address")
	require.Contains(t, ve.Messages, "Hire date must be a valid date in YYYY-MM-DD format")
	require.GreaterOrEqual(t, len(ve.Messages), 4, "all violations reported at once")
}

func TestCreateEmployeeRejectsFutureHireDate(t *testing.T) {
	_, departments, _, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	req := createRequest(dept.ID)
	req.HireDate = time.Now().AddDate(1, 0, 0).Format("2006-01-02")

	_, err := svc.Create(actorContext(1, models.RoleAdministrator, nil), req)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	require.Contains(t, ve.Messages, "Hire date cannot be in the future")
}

func TestUpdateEmployeeNoopSkipsAudit(t *testing.T) {
	_, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	ctx := actorContext(1, models.RoleAdministrator, nil)
	created, err := svc.Create(ctx, createRequest(dept.ID))
	require.NoError(t, err)
	require.Len(t, auditRepo.entries, 1)

	update := dto.EmployeeUpdateRequest{
		EmployeeID:   created.EmployeeID,
		FullName:     created.FullName,
		Username:     created.Username,
		Role:         created.Role,
		JobTitle:     created.JobTitle,
		DepartmentID: dept.ID,
		HireDate:     created.HireDate,
		Status:       created.Status,
		Email:        created.Email,
		Phone:        created.Phone,
		Address:      created.Address,
	}

	_, err = svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	require.Len(t, auditRepo.entries, 1, "identical field values must not produce an audit row")
}

func TestUpdateEmployeeSingleFieldAudited(t *testing.T) {
	_, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	ctx := actorContext(1, models.RoleAdministrator, nil)
	created, err := svc.Create(ctx, createRequest(dept.ID))
	require.NoError(t, err)

	update := dto.EmployeeUpdateRequest{
		EmployeeID:   created.EmployeeID,
		FullName:     created.FullName,
		Username:     created.Username,
		Role:         created.Role,
		JobTitle:     "Senior Engineer",
		DepartmentID: dept.ID,
		HireDate:     created.HireDate,
		Status:       created.Status,
		Email:        created.Email,
		Phone:        created.Phone,
		Address:      created.Address,
	}

	_, err = svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	require.Len(t, auditRepo.entries, 2)

	entry := auditRepo.entries[1]
	require.Equal(t, models.AuditActionUpdate, entry.Action)
	require.Contains(t, entry.Changes, "Job Title: Engineer → Senior Engineer")

	lines := strings.Split(entry.Changes, "\n")
	require.Len(t, lines, 2, "exactly one field-change line expected")
}

func TestManagerUpdateScopedToDepartment(t *testing.T) {
	_, departments, _, svc, _ := newTestFixture(t)
	dept5 := seedDepartment(t, departments, "Engineering")
	dept7 := seedDepartment(t, departments, "Sales")

	adminCtx := actorContext(1, models.RoleAdministrator, nil)
	created, err := svc.Create(adminCtx, createRequest(dept5.ID))
	require.NoError(t, err)

	update := dto.EmployeeUpdateRequest{
		EmployeeID:   created.EmployeeID,
		FullName:     created.FullName,
		Username:     created.Username,
		Role:         created.Role,
		JobTitle:     "Senior Engineer",
		DepartmentID: dept5.ID,
		HireDate:     created.HireDate,
		Status:       created.Status,
		Email:        created.Email,
	}

	sameDeptManager := actorContext(2, models.RoleManager, ptrUint(dept5.ID))
	_, err = svc.Update(sameDeptManager, created.ID, update)
	require.NoError(t, err)

	otherDeptManager := actorContext(3, models.RoleManager, ptrUint(dept7.ID))
	_, err = svc.Update(otherDeptManager, created.ID, update)
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestDeleteEmployeeAlwaysAudited(t *testing.T) {
	employees, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	ctx := actorContext(1, models.RoleHRPersonnel, nil)
	created, err := svc.Create(ctx, createRequest(dept.ID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.Empty(t, employees.employees)

	require.Len(t, auditRepo.entries, 2)
	entry := auditRepo.entries[1]
	require.Equal(t, models.AuditActionDelete, entry.Action)
	require.Contains(t, entry.Changes, "Deleted employee details:")
	require.Contains(t, entry.Changes, "Name: Ann Lee")
}

func TestDeleteMissingEmployeeIsNotFound(t *testing.T) {
	_, _, auditRepo, svc, _ := newTestFixture(t)

	err := svc.Delete(actorContext(1, models.RoleAdministrator, nil), 404)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
	require.Empty(t, auditRepo.entries)
}

func TestUpdateMissingEmployeeNotFoundBeforePolicy(t *testing.T) {
	_, departments, _, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	// Even a role that could never update sees not-found: the target must be
	// loaded first because manager permission depends on its department.
	update := dto.EmployeeUpdateRequest{
		EmployeeID: "E999", FullName: "X", Username: "x", Role: "EMPLOYEE",
		JobTitle: "Engineer", DepartmentID: dept.ID, HireDate: "2023-01-01",
		Status: "ACTIVE", Email: "x@example.com",
	}
	_, err := svc.Update(actorContext(1, models.RoleEmployee, nil), 404, update)
	require.ErrorIs(t, err, ErrEmployeeNotFound)
}

func TestDuplicateUsernameRejected(t *testing.T) {
	_, departments, _, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	ctx := actorContext(1, models.RoleAdministrator, nil)
	_, err := svc.Create(ctx, createRequest(dept.ID))
	require.NoError(t, err)

	duplicate := createRequest(dept.ID)
	duplicate.EmployeeID = "E101"
	_, err = svc.Create(ctx, duplicate)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestChangePasswordSelfServiceAllowed(t *testing.T) {
	employees, departments, auditRepo, svc, _ := newTestFixture(t)
	dept := seedDepartment(t, departments, "Engineering")

	adminCtx := actorContext(1, models.RoleAdministrator, nil)
	created, err := svc.Create(adminCtx, createRequest(dept.ID))
	require.NoError(t, err)

	before := employees.employees[created.ID].PasswordHash

	selfCtx := actorContext(created.ID, models.RoleEmployee, ptrUint(dept.ID))
	require.NoError(t, svc.ChangePassword(selfCtx, created.ID, dto.ChangePasswordRequest{Password: "new-password-1"}))
	require.NotEqual(t, before, employees.employees[created.ID].PasswordHash)

	// Password changes are not written to the audit trail.
	require.Len(t, auditRepo.entries, 1)

	strangerCtx := actorContext(777, models.RoleEmployee, nil)
	err = svc.ChangePassword(strangerCtx, created.ID, dto.ChangePasswordRequest{Password: "new-password-2"})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListDeniedForEmployeeRole(t *testing.T) {
	_, _, _, svc, _ := newTestFixture(t)

	_, err := svc.List(actorContext(1, models.RoleEmployee, nil), dto.EmployeeListRequest{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, ErrPermissionDenied)

	_, err = svc.List(context.Background(), dto.EmployeeListRequest{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, ErrPermissionDenied, "missing actor fails closed")
}

type failingRecorder struct{}

func (failingRecorder) Record(context.Context, *gorm.DB, AuditEntry) error {
	return errors.New("audit store unavailable")
}

func TestAuditFailurePropagatesFromCreate(t *testing.T) {
	employees := newMemoryEmployeeRepo()
	departments := newMemoryDepartmentRepo()
	dept := seedDepartment(t, departments, "Engineering")

	svc := NewEmployeeService(memoryTxRunner{}, employees, departments, failingRecorder{}, newValidator(), 10, testLogger())

	_, err := svc.Create(actorContext(1, models.RoleAdministrator, nil), createRequest(dept.ID))
	require.Error(t, err)
	require.Contains(t, err.Error(), "audit store unavailable")
}

package audit

import (
	"fmt"
	"strings"

	"github.com/hahnsoftware/emp-records-api/internal/models"
)

// HiddenValue replaces credential material in audit text.
const HiddenValue = "[Hidden]"

// ChangeSet accumulates a human-readable description of a mutation. For
// updates only fields that actually changed produce a line; creation and
// deletion snapshots dump every tracked field.
type ChangeSet struct {
	builder strings.Builder
	changed int
}

// NewChangeSet starts a change-set with the given header line.
func NewChangeSet(header string) *ChangeSet {
	cs := &ChangeSet{}
	cs.builder.WriteString(header)
	cs.builder.WriteString("\n")
	return cs
}

// Track appends a "<Field>: <old> → <new>" line when both values are present
// and differ. Equal values or an absent side produce no line.
func (cs *ChangeSet) Track(field, oldValue, newValue string) {
	if oldValue == "" || newValue == "" || oldValue == newValue {
		return
	}
	fmt.Fprintf(&cs.builder, "%s: %s → %s\n", field, oldValue, newValue)
	cs.changed++
}

// Add appends a "<Field>: <value>" snapshot line unconditionally.
func (cs *ChangeSet) Add(field, value string) {
	fmt.Fprintf(&cs.builder, "%s: %s\n", field, value)
	cs.changed++
}

// Empty reports whether no field line was appended beyond the header.
func (cs *ChangeSet) Empty() bool {
	return cs.changed == 0
}

// String renders the accumulated change description.
func (cs *ChangeSet) String() string {
	return strings.TrimRight(cs.builder.String(), "\n")
}

// EmployeeCreated renders the full-field snapshot for a new employee record.
// The password is never rendered, only a hidden marker.
func EmployeeCreated(e models.Employee) *ChangeSet {
	cs := NewChangeSet("Created employee with details:")
	cs.Add("Employee ID", e.EmployeeID)
	cs.Add("Name", e.FullName)
	cs.Add("Username", e.Username)
	cs.Add("Password", HiddenValue)
	cs.Add("Role", string(e.Role))
	cs.Add("Job Title", e.JobTitle)
	cs.Add("Department", e.DepartmentName())
	cs.Add("Hire Date", e.HireDate.Format("2006-01-02"))
	cs.Add("Status", string(e.Status))
	cs.Add("Email", e.Email)
	cs.Add("Phone", e.Phone)
	cs.Add("Address", e.Address)
	return cs
}

// EmployeeUpdated diffs the tracked employee fields between the pre-mutation
// snapshot and the new state.
func EmployeeUpdated(oldEmployee, newEmployee models.Employee) *ChangeSet {
	cs := NewChangeSet("Updated fields:")
	cs.Track("Employee ID", oldEmployee.EmployeeID, newEmployee.EmployeeID)
	cs.Track("Name", oldEmployee.FullName, newEmployee.FullName)
	cs.Track("Job Title", oldEmployee.JobTitle, newEmployee.JobTitle)
	cs.Track("Department", oldEmployee.DepartmentName(), newEmployee.DepartmentName())
	cs.Track("Hire Date", oldEmployee.HireDate.Format("2006-01-02"), newEmployee.HireDate.Format("2006-01-02"))
	cs.Track("Status", string(oldEmployee.Status), string(newEmployee.Status))
	cs.Track("Email", oldEmployee.Email, newEmployee.Email)
	cs.Track("Phone", oldEmployee.Phone, newEmployee.Phone)
	cs.Track("Address", oldEmployee.Address, newEmployee.Address)
	cs.Track("Username", oldEmployee.Username, newEmployee.Username)
	cs.Track("Role", string(oldEmployee.Role), string(newEmployee.Role))
	return cs
}

// EmployeeDeleted renders the pre-deletion snapshot of an employee record.
func EmployeeDeleted(e models.Employee) *ChangeSet {
	cs := NewChangeSet("Deleted employee details:")
	cs.Add("Employee ID", e.EmployeeID)
	cs.Add("Name", e.FullName)
	cs.Add("Job Title", e.JobTitle)
	cs.Add("Department", e.DepartmentName())
	cs.Add("Status", string(e.Status))
	return cs
}

// DepartmentCreated renders the full-field snapshot for a new department.
func DepartmentCreated(d models.Department) *ChangeSet {
	cs := NewChangeSet("Created department with details:")
	cs.Add("Name", d.Name)
	cs.Add("Manager", d.ManagerName())
	return cs
}

// DepartmentUpdated diffs the tracked department fields.
func DepartmentUpdated(oldDepartment, newDepartment models.Department) *ChangeSet {
	cs := NewChangeSet("Updated fields:")
	cs.Track("Name", oldDepartment.Name, newDepartment.Name)
	cs.Track("Manager", oldDepartment.ManagerName(), newDepartment.ManagerName())
	return cs
}

// DepartmentDeleted renders the pre-deletion snapshot of a department.
func DepartmentDeleted(d models.Department) *ChangeSet {
	cs := NewChangeSet("Deleted department details:")
	cs.Add("Name", d.Name)
	cs.Add("Manager", d.ManagerName())
	return cs
}

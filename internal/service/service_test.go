package service_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/hrms/internal/model"
	"github.com/suteetoe/hrms/internal/service"
	"github.com/suteetoe/hrms/internal/store"
	"github.com/suteetoe/hrms/internal/store/storetest"
	"github.com/suteetoe/hrms/pkg/metrics"
)

type fixture struct {
	store       *store.Store
	registry    *prometheus.Registry
	audit       *service.AuditService
	departments *service.DepartmentService
	employees   *service.EmployeeService
	attendance  *service.AttendanceService
	imports     *service.ImportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := prometheus.NewRegistry()
	domain := metrics.NewDomain(registry, "test")
	st := store.New(storetest.OpenDB(t), domain)

	audit := service.NewAuditService(st)
	departments := service.NewDepartmentService(st, audit, domain)
	employees := service.NewEmployeeService(st, audit, domain)
	return &fixture{
		store:       st,
		registry:    registry,
		audit:       audit,
		departments: departments,
		employees:   employees,
		attendance:  service.NewAttendanceService(st, audit, domain),
		imports:     service.NewImportService(st, departments, employees, domain),
	}
}

func (f *fixture) department(t *testing.T, name string) *model.Department {
	t.Helper()
	d, err := f.departments.Create(context.Background(), name)
	require.NoError(t, err)
	return d
}

func (f *fixture) employee(t *testing.T, employeeID, fullName, email string, departmentID uint) *model.EmployeeResponse {
	t.Helper()
	e, err := f.employees.Create(context.Background(), model.EmployeeInput{
		EmployeeID:   employeeID,
		FullName:     fullName,
		Email:        email,
		DepartmentID: departmentID,
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) logs(t *testing.T, filter model.AdminLogFilter) []model.AdminLog {
	t.Helper()
	logs, err := f.audit.List(context.Background(), filter)
	require.NoError(t, err)
	return logs
}

// metric reads the current value of the counter name carrying exactly labels
func (f *fixture) metric(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

// observations reads the sample count of the histogram name carrying exactly labels
func (f *fixture) observations(t *testing.T, name string, labels map[string]string) uint64 {
	t.Helper()
	families, err := f.registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	next:
		for _, m := range mf.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			for _, lp := range m.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue next
				}
			}
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}

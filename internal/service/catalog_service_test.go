package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedro-it/portal-api/internal/domain"
	"github.com/pedro-it/portal-api/internal/events"
	apperrors "github.com/pedro-it/portal-api/pkg/util"
)

type catalogFixture struct {
	svc      *CatalogService
	services *fakeServiceRepo
	assigned *fakeClientServiceRepo
	users    *fakeUserRepo
	client   *domain.User
	staff    *domain.User
}

func newCatalogFixture() *catalogFixture {
	services := newFakeServiceRepo()
	assigned := newFakeClientServiceRepo(services)
	users := newFakeUserRepo()
	client := users.add(clientUser())
	staff := users.add(staffUser())
	svc := NewCatalogService(services, assigned, users, events.NewInMemoryDispatcher())
	return &catalogFixture{svc: svc, services: services, assigned: assigned, users: users, client: client, staff: staff}
}

func (f *catalogFixture) createService(t *testing.T) *domain.Service {
	t.Helper()
	svc, err := f.svc.CreateService(context.Background(), ServiceInput{
		Name:        "Soporte Remoto",
		Description: "Soporte técnico remoto 24/7",
		PriceType:   domain.PriceTypeHourly,
		Price:       50,
		Features:    []string{"Conexión segura", "Sin visita presencial"},
	})
	require.NoError(t, err)
	return svc
}

func TestCreateServiceDefaultsToActive(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	assert.True(t, svc.IsActive)
	assert.NotEmpty(t, svc.ID)

	catalog, err := f.svc.ListCatalog(context.Background())
	require.NoError(t, err)
	assert.Len(t, catalog, 1)
}

func TestGetServiceHidesInactiveFromClients(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	inactive := false
	_, err := f.svc.UpdateService(context.Background(), svc.ID, ServiceInput{
		Name:        svc.Name,
		Description: svc.Description,
		PriceType:   svc.PriceType,
		Price:       svc.Price,
		IsActive:    &inactive,
	})
	require.NoError(t, err)

	_, err = f.svc.GetService(context.Background(), f.client, svc.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)

	// Staff still see it for editing.
	found, err := f.svc.GetService(context.Background(), f.staff, svc.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)
}

func TestAssignServiceCreatesActiveAssignment(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	cs, err := f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ClientServiceActive, cs.Status)
	assert.Nil(t, cs.EndDate)
	require.NotNil(t, cs.Service)
	assert.Equal(t, "Soporte Remoto", cs.Service.Name)
}

func TestAssignServiceRejectsActiveDuplicate(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	_, err := f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "ALREADY_ASSIGNED", apperrors.ToDomainError(err).Code)
}

func TestAssignServiceReactivatesCancelledAssignment(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	cs, err := f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.NoError(t, err)

	cancelled := domain.ClientServiceCancelled
	updated, err := f.svc.UpdateAssignment(context.Background(), cs.ID, ClientServiceUpdateInput{Status: &cancelled})
	require.NoError(t, err)
	require.NotNil(t, updated.EndDate)

	// Assigning again reuses the record instead of duplicating it.
	reassigned, err := f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, cs.ID, reassigned.ID)
	assert.Equal(t, domain.ClientServiceActive, reassigned.Status)
	assert.Nil(t, reassigned.EndDate)
}

func TestAssignServiceUnknownUser(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)

	_, err := f.svc.AssignService(context.Background(), f.staff, "missing-user", svc.ID, nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestListAssignmentsScopedByRole(t *testing.T) {
	f := newCatalogFixture()
	svc := f.createService(t)
	other := f.users.add(clientUser())

	_, err := f.svc.AssignService(context.Background(), f.staff, f.client.ID, svc.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.AssignService(context.Background(), f.staff, other.ID, svc.ID, nil)
	require.NoError(t, err)

	mine, err := f.svc.ListAssignments(context.Background(), f.client, nil)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := f.svc.ListAssignments(context.Background(), f.staff, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

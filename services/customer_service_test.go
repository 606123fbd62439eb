package services

import (
	"testing"

	"weddingshop/entity"
	"weddingshop/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedCustomers(t *testing.T) (*gorm.DB, *CustomerService, []*entity.User) {
	t.Helper()
	db := newTestDB(t)
	users := []*entity.User{
		mustCustomer(t, db, "An Nguyen", "an@example.com", day("2026-01-05 09:00")),
		mustCustomer(t, db, "Binh Tran", "binh@example.com", day("2026-02-05 09:00")),
		mustCustomer(t, db, "Chi Le", "chi@wedding.vn", day("2026-03-05 09:00")),
	}
	admin := &entity.User{Fullname: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin, Status: entity.UserActive, Type: entity.AccountLogin}
	require.NoError(t, db.Create(admin).Error)
	users = append(users, admin)

	svc := NewCustomerService(repository.NewUserRepository(db))
	svc.Now = fixedClock(day("2026-03-15 12:00"))
	return db, svc, users
}

func TestListCustomersExcludesAdmins(t *testing.T) {
	_, svc, _ := seedCustomers(t)

	page, err := svc.List(repository.CustomerQuery{})
	require.NoError(t, err)
	require.Len(t, page.Customers, 3)
	require.Equal(t, Pagination{Page: 1, Limit: 10, Total: 3, TotalPages: 1}, page.Pagination)
	require.Equal(t, "Chi Le", page.Customers[0].Fullname)
}

func TestListCustomersSearchSortPage(t *testing.T) {
	_, svc, _ := seedCustomers(t)

	page, err := svc.List(repository.CustomerQuery{Search: "EXAMPLE"})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Pagination.Total)

	page, err = svc.List(repository.CustomerQuery{SortBy: "fullname", SortOrder: "asc", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Customers, 1)
	require.Equal(t, "Chi Le", page.Customers[0].Fullname)
	require.Equal(t, 2, page.Pagination.TotalPages)

	page, err = svc.List(repository.CustomerQuery{Search: "nobody"})
	require.NoError(t, err)
	require.NotNil(t, page.Customers)
	require.Empty(t, page.Customers)
}

func TestCustomerStats(t *testing.T) {
	_, svc, users := seedCustomers(t)
	_, err := svc.SetStatus(users[1].ID, entity.UserSuspended)
	require.NoError(t, err)

	st, err := svc.Stats()
	require.NoError(t, err)
	require.Equal(t, repository.CustomerStats{Total: 3, Active: 2, Suspended: 1, NewThisMonth: 1}, *st)
}

func TestGetCustomerHidesAdmins(t *testing.T) {
	_, svc, users := seedCustomers(t)

	got, err := svc.Get(users[0].ID)
	require.NoError(t, err)
	require.Equal(t, "an@example.com", got.Email)

	_, err = svc.Get(users[3].ID)
	require.ErrorIs(t, err, ErrCustomerNotFound)

	_, err = svc.Get(9999)
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestUpdateCustomer(t *testing.T) {
	_, svc, users := seedCustomers(t)
	id := users[0].ID

	got, err := svc.Update(id, CustomerUpdate{Fullname: ptr("  An N.  "), Points: ptr(40)})
	require.NoError(t, err)
	require.Equal(t, "An N.", got.Fullname)
	require.Equal(t, 40, got.Points)
	require.Equal(t, "an@example.com", got.Email)

	got, err = svc.Update(id, CustomerUpdate{Email: ptr(" AN@Example.com ")})
	require.NoError(t, err)
	require.Equal(t, "an@example.com", got.Email)

	_, err = svc.Update(id, CustomerUpdate{Email: ptr("binh@example.com")})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Update(id, CustomerUpdate{Email: ptr("not-an-email")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(id, CustomerUpdate{Fullname: ptr(" ")})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(id, CustomerUpdate{Points: ptr(-1)})
	require.ErrorIs(t, err, ErrValidation)
}

func TestSetStatusAndDelete(t *testing.T) {
	db, svc, users := seedCustomers(t)
	id := users[2].ID

	_, err := svc.SetStatus(id, "banned")
	require.ErrorIs(t, err, ErrValidation)

	got, err := svc.SetStatus(id, entity.UserSuspended)
	require.NoError(t, err)
	require.Equal(t, entity.UserSuspended, got.Status)

	require.NoError(t, svc.Delete(id))
	_, err = svc.Get(id)
	require.ErrorIs(t, err, ErrCustomerNotFound)
	require.ErrorIs(t, svc.Delete(id), ErrCustomerNotFound)

	var n int64
	require.NoError(t, db.Unscoped().Model(&entity.User{}).Where("id = ?", id).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

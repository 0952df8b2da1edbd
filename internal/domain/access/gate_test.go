package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/access"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestAuthorize_MatrizDeRoles(t *testing.T) {
	admin := &access.Principal{UserID: "u1", Username: "admin", Role: entity.RoleAdmin}
	seller := &access.Principal{UserID: "u2", Username: "vendedor", Role: entity.RoleUser, Seller: true}
	user := &access.Principal{UserID: "u3", Username: "user", Role: entity.RoleUser}

	cases := []struct {
		p    *access.Principal
		c    access.Capability
		want error
	}{
		{admin, access.CapManageArticles, nil},
		{admin, access.CapManagePurchases, nil},
		{admin, access.CapSell, nil},
		{admin, access.CapManageUsers, nil},
		{seller, access.CapSell, nil},
		{seller, access.CapRead, nil},
		{seller, access.CapManageArticles, domain.ErrForbidden},
		{seller, access.CapManagePurchases, domain.ErrForbidden},
		{user, access.CapRead, nil},
		{user, access.CapSell, domain.ErrForbidden},
		{user, access.CapManageUsers, domain.ErrForbidden},
	}
	for _, tc := range cases {
		err := access.Authorize(tc.p, tc.c)
		if tc.want == nil {
			assert.NoError(t, err, "%s/%s", tc.p.Username, tc.c)
			continue
		}
		assert.ErrorIs(t, err, tc.want, "%s/%s", tc.p.Username, tc.c)
	}
}

func TestAuthorize_SinPrincipal(t *testing.T) {
	assert.ErrorIs(t, access.Authorize(nil, access.CapRead), domain.ErrUnauthorized)
	assert.ErrorIs(t, access.Authorize(&access.Principal{UserID: "x"}, access.CapRead), domain.ErrUnauthorized)
}

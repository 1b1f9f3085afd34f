package tests

import (
	"context"
	"testing"

	"github.com/jmsleo/kreasiPOS/internal/dto"
	"github.com/jmsleo/kreasiPOS/internal/model"
	"github.com/jmsleo/kreasiPOS/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) addStore(name, email string) *model.Tenant {
	tn := &model.Tenant{ID: f.tenantID, Name: name, Email: email, Active: true}
	_ = f.tenants.Create(context.Background(), nil, tn)
	return tn
}

func TestStoreSettingsRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.addStore("Warung Kopi", "owner@warung.test")

	got, err := f.settings.GetStoreSettings(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, "Warung Kopi", got.Name)
	assert.Equal(t, "owner@warung.test", got.Email)
	assert.Empty(t, got.Phone)

	updated, err := f.settings.UpdateStoreSettings(ctx, f.tenantID, dto.UpdateStoreSettingsRequest{
		Name:    "Warung Kopi Baru",
		Email:   "owner@warung.test",
		Phone:   "0219876543",
		Address: "Jl. Sudirman 1",
		City:    "Jakarta",
	})
	require.NoError(t, err)
	assert.Equal(t, "Warung Kopi Baru", updated.Name)
	assert.Equal(t, "0219876543", updated.Phone)
	assert.Equal(t, "Jakarta", updated.City)

	got, err = f.settings.GetStoreSettings(ctx, f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, "Warung Kopi Baru", got.Name)
	assert.Equal(t, "Jl. Sudirman 1", got.Address)
}

func TestUpdateStoreSettingsClearsOmittedFields(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.addStore("Warung Kopi", "owner@warung.test")

	_, err := f.settings.UpdateStoreSettings(ctx, f.tenantID, dto.UpdateStoreSettingsRequest{
		Name:  "Warung Kopi",
		Email: "owner@warung.test",
		Phone: "0219876543",
	})
	require.NoError(t, err)

	// A follow-up update without the phone drops it.
	got, err := f.settings.UpdateStoreSettings(ctx, f.tenantID, dto.UpdateStoreSettingsRequest{
		Name:  "Warung Kopi",
		Email: "owner@warung.test",
	})
	require.NoError(t, err)
	assert.Empty(t, got.Phone)
}

func TestUpdateStoreSettingsRejectsTakenEmail(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	f.addStore("Warung Kopi", "owner@warung.test")
	require.NoError(t, f.tenants.Create(ctx, nil, &model.Tenant{
		Name:   "Toko Lain",
		Email:  "other@store.test",
		Active: true,
	}))

	_, err := f.settings.UpdateStoreSettings(ctx, f.tenantID, dto.UpdateStoreSettingsRequest{
		Name:  "Warung Kopi",
		Email: "other@store.test",
	})
	require.ErrorIs(t, err, service.ErrStoreEmailTaken)
}

func TestGetStoreSettingsUnknownTenant(t *testing.T) {
	f := newFixture()

	_, err := f.settings.GetStoreSettings(context.Background(), f.tenantID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

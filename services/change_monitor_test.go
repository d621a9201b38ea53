package services

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/sepatu-storefront/database"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/realtime"
	"github.com/yeremiapane/sepatu-storefront/status"
)

func TestChangeMonitor_PublishesOrderChanges(t *testing.T) {
	db := setupTestDB(t)
	hub := realtime.NewHub()
	pub := &recordingPublisher{}
	cm := NewChangeMonitor(db, hub, pub)

	order := models.Order{UserID: "user-1", Status: status.RawSubmitted}
	require.NoError(t, db.Create(&order).Error)
	orderID := strconv.FormatUint(uint64(order.ID), 10)

	sub := hub.Subscribe(realtime.Topic(realtime.TableOrders, orderID))
	defer sub.Close()

	require.NoError(t, database.RecordChange(db, realtime.TableOrders, orderID, "user-1", models.ActionInsert))
	n, err := cm.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, db.Model(&order).Update("status", status.RawPaid).Error)
	require.NoError(t, database.RecordChange(db, realtime.TableOrders, orderID, "user-1", models.ActionUpdate))
	// perubahan lain yang tidak mengubah status tampilan
	require.NoError(t, database.RecordChange(db, realtime.TableOrders, orderID, "user-1", models.ActionUpdate))

	n, err = cm.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	first := <-sub.C()
	second := <-sub.C()
	third := <-sub.C()
	assert.Equal(t, realtime.EventOrderUpdate, first.Event)

	c1 := first.Data.(realtime.Change)
	c2 := second.Data.(realtime.Change)
	c3 := third.Data.(realtime.Change)
	assert.Less(t, c1.Version, c2.Version)
	assert.Less(t, c2.Version, c3.Version)
	assert.Equal(t, "submitted", c1.Row["status"])
	assert.Equal(t, "paid", c2.Row["status"])

	// insert (Tertunda) lalu perubahan ke Dibayar; update ketiga tidak menerbitkan event
	require.Len(t, pub.events, 2)
	assert.Equal(t, status.Tertunda, pub.events[0].Display)
	assert.Equal(t, status.Dibayar, pub.events[1].Display)
	assert.Equal(t, status.Tertunda, pub.events[1].Previous)
	assert.Equal(t, "user-1", pub.events[1].OwnerID)
	// order yang sudah final tidak disimpan lagi di cache status
	assert.NotContains(t, cm.lastStatus, realtime.Topic(realtime.TableOrders, orderID))

	var pending int64
	db.Model(&models.DBChange{}).Where("processed = ?", false).Count(&pending)
	assert.Zero(t, pending)

	// tidak ada yang diproses dua kali
	n, err = cm.ProcessPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestChangeMonitor_CartChangesGoToOwnerTopic(t *testing.T) {
	db := setupTestDB(t)
	hub := realtime.NewHub()
	cm := NewChangeMonitor(db, hub, nil)

	produk := models.Product{NamaProduk: "Runner 2", Harga: 450000}
	require.NoError(t, db.Create(&produk).Error)
	item := models.CartItem{UserID: "user-2", ProdukID: produk.ID, Size: "41", Quantity: 1}
	require.NoError(t, db.Create(&item).Error)

	sub := hub.Subscribe(realtime.Topic(realtime.TableCart, "user-2"))
	defer sub.Close()

	require.NoError(t, database.RecordChange(db, realtime.TableCart, item.Key(), "user-2", models.ActionInsert))
	require.NoError(t, database.RecordChange(db, realtime.TableCart, "999", "user-2", models.ActionDelete))

	_, err := cm.ProcessPending(context.Background())
	require.NoError(t, err)

	msg := <-sub.C()
	assert.Equal(t, realtime.EventCartUpdate, msg.Event)
	row := msg.Data.(realtime.Change).Row
	assert.Equal(t, "41", row["size"])

	msg = <-sub.C()
	assert.Equal(t, models.ActionDelete, msg.Data.(realtime.Change).Action)
	assert.Nil(t, msg.Data.(realtime.Change).Row)
}

func TestChangeMonitor_StartStop(t *testing.T) {
	db := setupTestDB(t)
	cm := NewChangeMonitor(db, realtime.NewHub(), nil)
	cm.Start(context.Background())
	cm.Stop()
	assert.NotPanics(t, cm.Stop)
}

package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/yeremiapane/sepatu-storefront/events"
	"github.com/yeremiapane/sepatu-storefront/metrics"
	"github.com/yeremiapane/sepatu-storefront/models"
	"github.com/yeremiapane/sepatu-storefront/realtime"
	"github.com/yeremiapane/sepatu-storefront/status"
	"github.com/yeremiapane/sepatu-storefront/utils"
	"gorm.io/gorm"
)

const TableReturns = "returns"

// ChangeMonitor membaca db_changes yang diisi trigger lalu meneruskannya ke hub realtime.
type ChangeMonitor struct {
	DB        *gorm.DB
	Hub       *realtime.Hub
	Publisher events.StatusPublisher
	Interval  time.Duration
	BatchSize int

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// status tampilan terakhir per baris, hanya disentuh goroutine polling
	lastStatus map[string]status.Display
}

func NewChangeMonitor(db *gorm.DB, hub *realtime.Hub, publisher events.StatusPublisher) *ChangeMonitor {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ChangeMonitor{
		DB:         db,
		Hub:        hub,
		Publisher:  publisher,
		Interval:   1 * time.Second,
		BatchSize:  100,
		stopChan:   make(chan struct{}),
		lastStatus: make(map[string]status.Display),
	}
}

func (cm *ChangeMonitor) Start(ctx context.Context) {
	cm.wg.Add(1)
	go func() {
		defer cm.wg.Done()
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if _, err := cm.ProcessPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
					utils.ErrorLogger.Printf("Error processing changes: %v", err)
				}
			case <-cm.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() {
		close(cm.stopChan)
	})
	cm.wg.Wait()
}

// ProcessPending memproses satu batch perubahan dalam satu transaksi. Semua pembacaan
// baris dilakukan di dalam transaksi yang sama.
func (cm *ChangeMonitor) ProcessPending(ctx context.Context) (int, error) {
	var changes []models.DBChange

	tx := cm.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return 0, tx.Error
	}

	if err := tx.Where("processed = ?", false).
		Order("id ASC").
		Limit(cm.BatchSize).
		Find(&changes).Error; err != nil {
		tx.Rollback()
		return 0, err
	}

	ids := make([]uint64, 0, len(changes))
	for _, change := range changes {
		cm.dispatch(ctx, tx, change)
		ids = append(ids, change.ID)
	}

	if len(ids) > 0 {
		if err := tx.Model(&models.DBChange{}).
			Where("id IN ?", ids).
			Update("processed", true).Error; err != nil {
			tx.Rollback()
			return 0, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return len(changes), nil
}

func (cm *ChangeMonitor) dispatch(ctx context.Context, tx *gorm.DB, change models.DBChange) {
	row, owner, err := cm.loadRow(tx, change)
	if err != nil {
		utils.ErrorLogger.Printf("Error loading %s %s: %v", change.SourceTable, change.RecordID, err)
		return
	}

	c := realtime.Change{
		Table:    change.SourceTable,
		RecordID: change.RecordID,
		Action:   change.ActionType,
		Version:  change.ID,
		Row:      row,
	}

	switch change.SourceTable {
	case realtime.TableOrders:
		cm.Hub.Publish(realtime.Topic(realtime.TableOrders, change.RecordID), realtime.Message{Event: realtime.EventOrderUpdate, Data: c})
		cm.trackStatus(ctx, c, owner)
	case realtime.TableSubmissions:
		cm.Hub.Publish(realtime.Topic(realtime.TableSubmissions, change.RecordID), realtime.Message{Event: realtime.EventSubmissionUpdate, Data: c})
		cm.trackStatus(ctx, c, owner)
	case realtime.TableCart:
		cm.Hub.Publish(realtime.Topic(realtime.TableCart, owner), realtime.Message{Event: realtime.EventCartUpdate, Data: c})
	case realtime.TableFavorites:
		cm.Hub.Publish(realtime.Topic(realtime.TableFavorites, owner), realtime.Message{Event: realtime.EventFavoriteUpdate, Data: c})
	case TableReturns:
		cm.Hub.Publish(realtime.Topic(TableReturns, owner), realtime.Message{Event: realtime.EventRowChange, Data: c})
	default:
		return
	}
	metrics.ChangesProcessedTotal.WithLabelValues(change.SourceTable).Inc()
}

// loadRow mengambil snapshot baris terbaru. Untuk DELETE row nil dan owner dari db_changes.
func (cm *ChangeMonitor) loadRow(tx *gorm.DB, change models.DBChange) (map[string]any, string, error) {
	owner := change.OwnerID
	if change.ActionType == models.ActionDelete {
		return nil, owner, nil
	}

	var model any
	switch change.SourceTable {
	case realtime.TableOrders:
		id, err := strconv.ParseUint(change.RecordID, 10, 64)
		if err != nil {
			return nil, owner, err
		}
		var order models.Order
		if err := tx.First(&order, id).Error; err != nil {
			return nil, owner, err
		}
		model, owner = order, order.UserID
	case realtime.TableSubmissions:
		var sub models.CheckoutSubmission
		if err := tx.First(&sub, "id = ?", change.RecordID).Error; err != nil {
			return nil, owner, err
		}
		model, owner = sub, sub.UserID
	case realtime.TableCart:
		id, err := strconv.ParseUint(change.RecordID, 10, 64)
		if err != nil {
			return nil, owner, err
		}
		var item models.CartItem
		if err := tx.Preload("Produk").First(&item, id).Error; err != nil {
			return nil, owner, err
		}
		model, owner = item, item.UserID
	case realtime.TableFavorites:
		id, err := strconv.ParseUint(change.RecordID, 10, 64)
		if err != nil {
			return nil, owner, err
		}
		var fav models.Favorite
		if err := tx.Preload("Produk").First(&fav, id).Error; err != nil {
			return nil, owner, err
		}
		model, owner = fav, fav.UserID
	case TableReturns:
		id, err := strconv.ParseUint(change.RecordID, 10, 64)
		if err != nil {
			return nil, owner, err
		}
		var ret models.Return
		if err := tx.First(&ret, id).Error; err != nil {
			return nil, owner, err
		}
		model, owner = ret, ret.UserID
	default:
		return nil, owner, nil
	}

	row, err := realtime.RowMap(model)
	return row, owner, err
}

// trackStatus menerbitkan event ke broker saat status tampilan berubah.
func (cm *ChangeMonitor) trackStatus(ctx context.Context, c realtime.Change, owner string) {
	key := realtime.Topic(c.Table, c.RecordID)
	if c.Row == nil {
		delete(cm.lastStatus, key)
		return
	}

	raw, _ := c.Row["status"].(string)
	current := status.Normalize(raw)
	prev, seen := cm.lastStatus[key]
	if current == status.Tertunda {
		cm.lastStatus[key] = current
	} else {
		// status selain Tertunda final; tidak perlu diingat lagi
		delete(cm.lastStatus, key)
	}

	if seen && prev == current {
		return
	}
	if !seen && c.Action != models.ActionInsert {
		// belum ada pembanding setelah restart; hanya catat
		return
	}

	ev := events.NewStatusChanged(c.Table, c.RecordID, owner, raw, prev, c.Version)
	if err := cm.Publisher.PublishStatus(ctx, ev); err != nil {
		utils.ErrorLogger.Printf("Error publishing status event for %s: %v", key, err)
	}
}

package models

import "time"

// Status pengembalian
const (
	ReturnStatusPending   = "pending"
	ReturnStatusApproved  = "approved"
	ReturnStatusReturned  = "returned"
	ReturnStatusRejected  = "rejected"
	ReturnStatusCompleted = "completed"
)

var returnNext = map[string]map[string]bool{
	ReturnStatusPending:   {ReturnStatusApproved: true, ReturnStatusRejected: true},
	ReturnStatusApproved:  {ReturnStatusReturned: true},
	ReturnStatusReturned:  {ReturnStatusCompleted: true},
	ReturnStatusRejected:  {},
	ReturnStatusCompleted: {},
}

// CanTransitionReturn melaporkan apakah status pengembalian boleh berpindah dari from ke to.
func CanTransitionReturn(from, to string) bool {
	return returnNext[from][to]
}

type Return struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	OrderID       uint      `gorm:"not null;index" json:"order_id"`
	Order         *Order    `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ReturnWaybill string    `gorm:"type:varchar(100)" json:"return_waybill"`
	Reason        string    `gorm:"type:text" json:"reason"`
	Notes         string    `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

// Open berarti pengembalian masih berjalan sehingga order yang sama tidak boleh diajukan lagi.
func (r Return) Open() bool {
	return r.Status != ReturnStatusRejected && r.Status != ReturnStatusCompleted
}

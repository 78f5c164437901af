package domain

// DashboardRow Model
type DashboardRow struct {
	ID        uint   `gorm:"primaryKey" json:"id"`                    // Primary key
	ProjectID uint   `gorm:"index:idx_project_role" json:"projectId"` // Foreign key to Project
	Role      string `gorm:"index:idx_project_role" json:"role"`      // Role the row belongs to: investor, donor or ops
	Key       string `gorm:"column:row_key;not null" json:"key"`      // Metric name
	Value     string `gorm:"column:row_value" json:"value"`           // Metric payload (JSON string)
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"createdAt"`   // Timestamp of creation in milliseconds
}

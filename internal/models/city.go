package models

// City is one destination served by the delivery company, carrying the flat
// delivery fee charged for shipments to it. The list is fetched from the
// delivery company's API and cached locally.
type City struct {
	CompanyCityID   string `json:"companyCityId" gorm:"primaryKey;type:varchar(36)"`
	CompanyCityName string `json:"companyCityName" gorm:"type:varchar(100)"`
	DisplayName     string `json:"displayName" gorm:"type:varchar(100)"`
	DeliveryFee     int    `json:"deliveryFee"`
}

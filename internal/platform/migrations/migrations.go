// Package migrations owns the relational schema shared by the gorm adapters.
package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for every bounded context.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&categoryRecord{},
		&productRecord{},
		&productCategoryRecord{},
		&roleRecord{},
		&userRecord{},
		&userRoleRecord{},
		&orderRecord{},
		&orderItemRecord{},
		&sessionRecord{},
	)
}

type categoryRecord struct {
	ID   int64  `gorm:"primaryKey;column:id"`
	Name string `gorm:"column:name;size:120;not null"`
}

func (categoryRecord) TableName() string { return "tb_category" }

type productRecord struct {
	ID          int64           `gorm:"primaryKey;column:id"`
	Name        string          `gorm:"column:name;size:80;not null;index"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	ImgURL      string          `gorm:"column:img_url;size:512"`
}

func (productRecord) TableName() string { return "tb_product" }

type productCategoryRecord struct {
	ProductID  int64          `gorm:"primaryKey;column:product_id"`
	CategoryID int64          `gorm:"primaryKey;column:category_id"`
	Product    productRecord  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Category   categoryRecord `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT"`
}

func (productCategoryRecord) TableName() string { return "tb_product_category" }

type roleRecord struct {
	ID        int64  `gorm:"primaryKey;column:id"`
	Authority string `gorm:"column:authority;size:64;uniqueIndex;not null"`
}

func (roleRecord) TableName() string { return "tb_role" }

type userRecord struct {
	ID        int64      `gorm:"primaryKey;column:id"`
	Name      string     `gorm:"column:name;size:120;not null"`
	Email     string     `gorm:"column:email;size:255;uniqueIndex;not null"`
	Phone     string     `gorm:"column:phone;size:32"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date"`
	Password  string     `gorm:"column:password;size:255;not null"`
}

func (userRecord) TableName() string { return "tb_user" }

type userRoleRecord struct {
	UserID int64      `gorm:"primaryKey;column:user_id"`
	RoleID int64      `gorm:"primaryKey;column:role_id"`
	User   userRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Role   roleRecord `gorm:"foreignKey:RoleID;constraint:OnDelete:RESTRICT"`
}

func (userRoleRecord) TableName() string { return "tb_user_role" }

type orderRecord struct {
	ID       int64      `gorm:"primaryKey;column:id"`
	Moment   time.Time  `gorm:"column:moment;not null;index"`
	Status   string     `gorm:"column:status;type:varchar(32);not null;index"`
	ClientID int64      `gorm:"column:client_id;not null;index"`
	Client   userRecord `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
}

func (orderRecord) TableName() string { return "tb_order" }

type orderItemRecord struct {
	OrderID   int64           `gorm:"primaryKey;column:order_id"`
	ProductID int64           `gorm:"primaryKey;column:product_id"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Order     orderRecord     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Product   productRecord   `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT"`
}

func (orderItemRecord) TableName() string { return "tb_order_item" }

// Session schema mirrors the session store.
type sessionRecord struct {
	Token     string     `gorm:"primaryKey;column:token;size:512"`
	Username  string     `gorm:"column:username;size:255;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt time.Time  `gorm:"column:updated_at;index"`
}

func (sessionRecord) TableName() string { return "user_sessions" }

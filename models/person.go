package models

type Person struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	UpdatedAt  int64
	VaultID    uint64 `gorm:"not null;index"`
	Vault      Vault  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FullName   string `gorm:"type:varchar(255)"`
	BirthDate  *int64
	BirthPlace string `gorm:"type:varchar(255)"`
	Notes      string `gorm:"type:text"`
}

const (
	RelationshipParent  = "PARENT"
	RelationshipSpouse  = "SPOUSE"
	RelationshipSibling = "SIBLING"
)

// Relationship links two persons of the same vault in the genealogy graph.
type Relationship struct {
	ID           uint64 `gorm:"primaryKey"`
	CreatedAt    int64
	FromPersonID uint64 `gorm:"not null;index:uniq_relation,unique,priority:1"`
	FromPerson   Person `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ToPersonID   uint64 `gorm:"not null;index:uniq_relation,unique,priority:2"`
	ToPerson     Person `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Type         string `gorm:"type:varchar(20);not null;index:uniq_relation,unique,priority:3"`
}

package db

import "gorm.io/gorm"

type Database interface {
	GetDB() *gorm.DB
}

type GormDatabase struct {
	DB *gorm.DB
}

func (g *GormDatabase) GetDB() *gorm.DB { return g.DB }

// Tx wraps a transaction handle so transaction-scoped repositories can be
// built with the usual constructors.
func Tx(tx *gorm.DB) Database { return &GormDatabase{DB: tx} }

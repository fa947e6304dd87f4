/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import (
	"strings"

	"github.com/tomoncle/estate/types"
)

type UserRole int

const (
	RoleUser  UserRole = 1
	RoleAgent UserRole = 2
	RoleAdmin UserRole = 3
)

var userRoles = types.EnumTable{
	{Number: int(RoleUser), Name: "User", Desc: "registered user"},
	{Number: int(RoleAgent), Name: "Agent", Desc: "listing agent"},
	{Number: int(RoleAdmin), Name: "Admin", Desc: "administrator"},
}

func (r UserRole) IsValid() bool  { _, ok := userRoles.Lookup(int(r)); return ok }
func (r UserRole) Number() int    { return int(r) }
func (r UserRole) String() string { return r.Name() }
func (r UserRole) Name() string   { e, _ := userRoles.Lookup(int(r)); return e.Name }
func (r UserRole) Desc() string   { e, _ := userRoles.Lookup(int(r)); return e.Desc }

type PropertyType int

const (
	PropertyApartment PropertyType = iota + 1
	PropertyHouse
	PropertyVilla
	PropertyOffice
	PropertyLand
	PropertyCommercial
	PropertyFarm
)

var propertyTypes = types.EnumTable{
	{Number: int(PropertyApartment), Name: "Apartment", Desc: "apartment"},
	{Number: int(PropertyHouse), Name: "House", Desc: "detached house"},
	{Number: int(PropertyVilla), Name: "Villa", Desc: "villa"},
	{Number: int(PropertyOffice), Name: "Office", Desc: "office space"},
	{Number: int(PropertyLand), Name: "Land", Desc: "land plot"},
	{Number: int(PropertyCommercial), Name: "Commercial", Desc: "commercial unit"},
	{Number: int(PropertyFarm), Name: "Farm", Desc: "farm"},
}

func (t PropertyType) IsValid() bool  { _, ok := propertyTypes.Lookup(int(t)); return ok }
func (t PropertyType) Number() int    { return int(t) }
func (t PropertyType) String() string { return t.Name() }
func (t PropertyType) Name() string   { e, _ := propertyTypes.Lookup(int(t)); return e.Name }
func (t PropertyType) Desc() string   { e, _ := propertyTypes.Lookup(int(t)); return e.Desc }

type PropertyStatus int

const (
	StatusForSale PropertyStatus = iota + 1
	StatusForRent
	StatusSold
	StatusRented
	StatusPending
	StatusInactive
)

var propertyStatuses = types.EnumTable{
	{Number: int(StatusForSale), Name: "ForSale", Desc: "for sale"},
	{Number: int(StatusForRent), Name: "ForRent", Desc: "for rent"},
	{Number: int(StatusSold), Name: "Sold", Desc: "sold"},
	{Number: int(StatusRented), Name: "Rented", Desc: "rented"},
	{Number: int(StatusPending), Name: "Pending", Desc: "pending"},
	{Number: int(StatusInactive), Name: "Inactive", Desc: "inactive"},
}

func (s PropertyStatus) IsValid() bool  { _, ok := propertyStatuses.Lookup(int(s)); return ok }
func (s PropertyStatus) Number() int    { return int(s) }
func (s PropertyStatus) String() string { return s.Name() }
func (s PropertyStatus) Name() string   { e, _ := propertyStatuses.Lookup(int(s)); return e.Name }
func (s PropertyStatus) Desc() string   { e, _ := propertyStatuses.Lookup(int(s)); return e.Desc }

type PaymentType int

const (
	PaymentPurchase PaymentType = iota + 1
	PaymentRentDeposit
	PaymentRentPayment
	PaymentCommission
)

var paymentTypes = types.EnumTable{
	{Number: int(PaymentPurchase), Name: "Purchase", Desc: "purchase"},
	{Number: int(PaymentRentDeposit), Name: "RentDeposit", Desc: "rent deposit"},
	{Number: int(PaymentRentPayment), Name: "RentPayment", Desc: "rent payment"},
	{Number: int(PaymentCommission), Name: "Commission", Desc: "agent commission"},
}

func (t PaymentType) IsValid() bool  { _, ok := paymentTypes.Lookup(int(t)); return ok }
func (t PaymentType) Number() int    { return int(t) }
func (t PaymentType) String() string { return t.Name() }
func (t PaymentType) Name() string   { e, _ := paymentTypes.Lookup(int(t)); return e.Name }
func (t PaymentType) Desc() string   { e, _ := paymentTypes.Lookup(int(t)); return e.Desc }

type PaymentStatus int

const (
	PaymentPending PaymentStatus = iota + 1
	PaymentCompleted
	PaymentFailed
	PaymentRefunded
	PaymentCancelled
)

var paymentStatuses = types.EnumTable{
	{Number: int(PaymentPending), Name: "Pending", Desc: "awaiting settlement"},
	{Number: int(PaymentCompleted), Name: "Completed", Desc: "settled"},
	{Number: int(PaymentFailed), Name: "Failed", Desc: "failed"},
	{Number: int(PaymentRefunded), Name: "Refunded", Desc: "refunded"},
	{Number: int(PaymentCancelled), Name: "Cancelled", Desc: "cancelled"},
}

func (s PaymentStatus) IsValid() bool  { _, ok := paymentStatuses.Lookup(int(s)); return ok }
func (s PaymentStatus) Number() int    { return int(s) }
func (s PaymentStatus) String() string { return s.Name() }
func (s PaymentStatus) Name() string   { e, _ := paymentStatuses.Lookup(int(s)); return e.Name }
func (s PaymentStatus) Desc() string   { e, _ := paymentStatuses.Lookup(int(s)); return e.Desc }

// ParsePropertyType resolves a type by name, ignoring case.
func ParsePropertyType(name string) (PropertyType, bool) {
	e, ok := propertyTypes.Parse(name)
	return PropertyType(e.Number), ok
}

// ParsePropertyStatus resolves a status by name, ignoring case and spaces
// ("for sale" and "ForSale" are equivalent).
func ParsePropertyStatus(name string) (PropertyStatus, bool) {
	e, ok := propertyStatuses.Parse(strings.ReplaceAll(name, " ", ""))
	return PropertyStatus(e.Number), ok
}

var (
	_ types.BaseEnum = UserRole(0)
	_ types.BaseEnum = PropertyType(0)
	_ types.BaseEnum = PropertyStatus(0)
	_ types.BaseEnum = PaymentType(0)
	_ types.BaseEnum = PaymentStatus(0)
)

// Copyright (C) 2025  medzi83
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package database

import (
	"context"

	"github.com/medzi83/project-app-sub004/internal/models"
)

// DeliveryLogDao is a data access object for the append-only delivery log. There is deliberately
// no update or delete.
type DeliveryLogDao interface {
	// Insert appends a new delivery log record.
	Insert(context.Context, Queryer, *models.DeliveryLogEntity) error
	// FindByClient returns all records of a client, newest first.
	FindByClient(context.Context, Queryer, int64) ([]models.DeliveryLogEntity, error)
}

// deliveryLogDao is the sqlite implementation of DeliveryLogDao.
type deliveryLogDao struct{}

// NewDeliveryLogDao creates a new DeliveryLogDao.
func NewDeliveryLogDao() DeliveryLogDao {
	return deliveryLogDao{}
}

func (deliveryLogDao) Insert(ctx context.Context, q Queryer, record *models.DeliveryLogEntity) error {
	const query = `
		insert into "delivery_log" (
			"client_id" ,
			"project_id" ,
			"recipient" ,
			"subject" ,
			"body" ,
			"success" ,
			"error_text" ,
			"transport_host" ,
			"logged_at"
		) values (
			:client_id ,
			:project_id ,
			:recipient ,
			:subject ,
			:body ,
			:success ,
			:error_text ,
			:transport_host ,
			:logged_at
		) ;
	`

	result, err := execNamed(ctx, q, query, record)
	if err != nil {
		return err
	}

	record.ID, err = result.LastInsertId()
	return err
}

func (deliveryLogDao) FindByClient(
	ctx context.Context,
	q Queryer,
	clientID int64,
) ([]models.DeliveryLogEntity, error) {
	const query = `
		select *
		from "delivery_log"
		where "client_id" = $1
		order by "logged_at" desc , "id" desc ;
	`

	var recordSlice []models.DeliveryLogEntity

	if err := selectSlice(ctx, q, &recordSlice, query, clientID); err != nil {
		return nil, err
	}

	return recordSlice, nil
}

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

// TransportConfigDao is a data access object for all mail transport configuration queries.
type TransportConfigDao interface {
	// Insert inserts a new transport config.
	Insert(context.Context, Queryer, *models.TransportConfigEntity) error
	// Update updates an existing transport config.
	Update(context.Context, Queryer, *models.TransportConfigEntity) error
	// Delete deletes an existing transport config.
	Delete(context.Context, Queryer, *models.TransportConfigEntity) error
	// FindByClient returns the transport config of a specific client.
	FindByClient(context.Context, Queryer, int64) (*models.TransportConfigEntity, error)
	// FindDefault returns the global default transport config.
	FindDefault(context.Context, Queryer) (*models.TransportConfigEntity, error)
	// FindAll returns all transport configs.
	FindAll(context.Context, Queryer) ([]models.TransportConfigEntity, error)
}

// transportConfigDao is the sqlite implementation of TransportConfigDao.
type transportConfigDao struct{}

// NewTransportConfigDao creates a new TransportConfigDao.
func NewTransportConfigDao() TransportConfigDao {
	return transportConfigDao{}
}

func (transportConfigDao) Insert(ctx context.Context, q Queryer, config *models.TransportConfigEntity) error {
	const query = `
		insert into "transport_configs" (
			"client_id" ,
			"host" ,
			"port" ,
			"use_tls" ,
			"username" ,
			"password" ,
			"from_address" ,
			"from_name"
		) values (
			:client_id ,
			:host ,
			:port ,
			:use_tls ,
			:username ,
			:password ,
			:from_address ,
			:from_name
		) ;
	`

	result, err := execNamed(ctx, q, query, config)
	if err != nil {
		return err
	}

	config.ID, err = result.LastInsertId()
	return err
}

func (transportConfigDao) Update(ctx context.Context, q Queryer, config *models.TransportConfigEntity) error {
	const query = `
		update "transport_configs"
		set "client_id"    = :client_id ,
			"host"         = :host ,
			"port"         = :port ,
			"use_tls"      = :use_tls ,
			"username"     = :username ,
			"password"     = :password ,
			"from_address" = :from_address ,
			"from_name"    = :from_name
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, config)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (transportConfigDao) Delete(ctx context.Context, q Queryer, config *models.TransportConfigEntity) error {
	const query = `
		delete from "transport_configs"
		where "id" = :id ;
	`

	result, err := execNamed(ctx, q, query, config)
	if err != nil {
		return err
	}

	return ensureRowsAffected(result)
}

func (transportConfigDao) FindByClient(
	ctx context.Context,
	q Queryer,
	clientID int64,
) (*models.TransportConfigEntity, error) {
	const query = `
		select *
		from "transport_configs"
		where "client_id" = $1 ;
	`

	var config models.TransportConfigEntity

	if err := selectOne(ctx, q, &config, query, clientID); err != nil {
		return nil, err
	}

	return &config, nil
}

func (transportConfigDao) FindDefault(ctx context.Context, q Queryer) (*models.TransportConfigEntity, error) {
	const query = `
		select *
		from "transport_configs"
		where "client_id" is null
		order by "id" asc
		limit 1 ;
	`

	var config models.TransportConfigEntity

	if err := selectOne(ctx, q, &config, query); err != nil {
		return nil, err
	}

	return &config, nil
}

func (transportConfigDao) FindAll(ctx context.Context, q Queryer) ([]models.TransportConfigEntity, error) {
	const query = `
		select *
		from "transport_configs"
		order by "id" asc ;
	`

	var configSlice []models.TransportConfigEntity

	if err := selectSlice(ctx, q, &configSlice, query); err != nil {
		return nil, err
	}

	return configSlice, nil
}

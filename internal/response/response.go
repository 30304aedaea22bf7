// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package response defines the two success envelopes existing clients
// expect. Most calls return an Envelope; paginated lists return a Page.
package response

import "net/http"

// Envelope is the standard success wrapper: {statusCode, message, data}.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
}

// OK wraps data in a 200 envelope.
func OK(message string, data any) *Envelope {
	return &Envelope{StatusCode: http.StatusOK, Message: message, Data: data}
}

// Created wraps data for a successful create.
func Created(message string, data any) *Envelope {
	return &Envelope{StatusCode: http.StatusCreated, Message: message, Data: data}
}

// Page is the pagination wrapper: {status, message, data, code}.
type Page struct {
	Status  bool     `json:"status"`
	Message string   `json:"message"`
	Data    PageData `json:"data"`
	Code    int      `json:"code"`
}

// PageData carries one page of items plus paging totals.
type PageData struct {
	List        any `json:"list"`
	TotalItems  int `json:"totalItems"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
}

// NewPage builds a successful page. totalPages is derived from total and
// limit, and is zero for an empty result.
func NewPage(message string, list any, total, page, limit int) *Page {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Page{
		Status:  true,
		Message: message,
		Data: PageData{
			List:        list,
			TotalItems:  total,
			CurrentPage: page,
			TotalPages:  pages,
		},
		Code: http.StatusOK,
	}
}

// Error is the client-facing error body: {statusCode, message, error}.
type Error struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Error      string `json:"error"`
}

// NewError builds an error body for status with the given message.
func NewError(status int, message string) *Error {
	return &Error{StatusCode: status, Message: message, Error: http.StatusText(status)}
}

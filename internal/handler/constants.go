// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteAbout is the about page.
	RouteAbout = "/about"
	// RouteBlogs is the blog listing route.
	RouteBlogs = "/blogs"
	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"
	// RouteBlogsID is the blog detail route pattern.
	RouteBlogsID = RouteBlogs + RouteParamID
	// RouteBlogsIDComments is the comment submission route pattern.
	RouteBlogsIDComments = RouteBlogsID + "/comments"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteRegister is the registration route.
	RouteRegister = "/register"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"

	// RouteDashboard is the admin dashboard root.
	RouteDashboard = "/dashboard"
	// RouteDashboardBlogs is the admin blog management route.
	RouteDashboardBlogs = RouteDashboard + "/blogs"
	// RouteDashboardBlogsNew is the admin blog creation form route.
	RouteDashboardBlogsNew = RouteDashboardBlogs + "/new"
	// RouteDashboardBlogsID is the admin blog edit route pattern.
	RouteDashboardBlogsID = RouteDashboardBlogs + RouteParamID
	// RouteDashboardBlogsIDDelete is the admin blog delete route pattern.
	RouteDashboardBlogsIDDelete = RouteDashboardBlogsID + "/delete"

	// RouteHealth is the health check route.
	RouteHealth = "/healthz"
)

// Flash message types.
const (
	flashTypeSuccess = "success"
	flashTypeError   = "error"
)

// blogsPerPage is the page size for the public blog listing.
const blogsPerPage = 9

package main

// General API documentation for swaggo. Build with -tags=swagger to serve it.
//
// @title           predictd API
// @version         1.0
// @description     HTTP API for tabular model predictions.
//
// @BasePath  /
//
// @schemes http

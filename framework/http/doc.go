// Package http provides request and response helpers for handlers.
//
// # Request
//
//	req := gohttp.NewRequest(r)
//	name := req.Query("name", "guest")
//
// # Response
//
//	res := gohttp.NewResponse(w)
//	res.Success(user) // 200 {"data": user}
//	res.NotFound()    // 404 {"message": "Not found."}
//	res.Error(http.StatusConflict, "Name taken")
package http

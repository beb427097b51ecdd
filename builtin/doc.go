// Package builtin provides the tools every catalogue carries.
//
// All built-in tools live in the "toolcall" namespace behind a single
// "menu" tool:
//
//	menu list tools                       sorted names of all catalogued tools
//	menu file checksum <file> [algorithm] hex digest, SHA-256 by default
//	menu file download <uri> <target>     fetch once, verify #content-length=N
//	menu file extract <zip> <dir> [strip] unpack, dropping leading elements
//	menu file head <uri>                  response headers
//	menu file read <uri>                  response body
//
// A menu without arguments prints its usage and item names. Network access
// goes through a [Browser] backed by fasthttp; file URIs are served from the
// local file system.
package builtin

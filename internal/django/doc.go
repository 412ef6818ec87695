// Package django integrates with the target Django project: locating it
// on disk, running its development server for the duration of an audit,
// and extracting its route table.
//
// The development server is an owned subprocess with a strict lifecycle:
// started once, terminated exactly once, on every exit path. DevServer
// enforces that discipline; Stop is safe to call multiple times and from
// deferred cleanup paths.
//
// Route extraction shells out to manage.py so the routes come from the
// project's own resolver, nested includes and namespaces already
// flattened, rather than from parsing urls.py files ourselves.
package django

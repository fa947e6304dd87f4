// Package estate is the persistence core of the listings marketplace. A
// UnitOfWork hands out the user, property, image, favorite, payment and
// contact repositories over one session and controls when their staged
// changes are saved; a Provider opens one unit per operation.
package estate

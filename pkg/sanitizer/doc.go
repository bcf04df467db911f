// Package sanitizer provides input normalization for dining-place data.
//
// All normalization functions are idempotent - applying them multiple times
// produces the same result. Functions handle invalid input gracefully,
// typically by returning empty strings rather than errors.
//
// Normalization includes:
//   - Phone numbers: convert to E.164 format (+[country][number])
//   - Website URLs: enforce HTTPS, lowercase domains, preserve paths
//   - Names and addresses: collapse whitespace, trim leading/trailing spaces
package sanitizer

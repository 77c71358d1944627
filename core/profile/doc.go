// Package profile loads empirical EV charging load profiles. Each profile
// family is stored as three delimited files, one per day type, with one row
// per 15-minute slot and one column per simulated vehicle. The loader
// transposes them into model.LoadMatrix values indexed [profile][slot].
package profile

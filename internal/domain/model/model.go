// Package model contains domain models passed between layers.
package model

// Category is the exhibitor category enumeration used by the fair.
type Category string

// Known exhibitor categories.
const (
	CategoryAgriculturaFamiliar       Category = "Agricultura familiar"
	CategoryAgroindustrias            Category = "Agroindústrias"
	CategoryPsicultura                Category = "Psicultura"
	CategoryMandiocultura             Category = "Mandiocultura"
	CategoryApicultura                Category = "Apicultura"
	CategoryCafe                      Category = "Café"
	CategoryCarne                     Category = "Carne"
	CategoryArtesanato                Category = "Artesanato"
	CategoryEmpresas                  Category = "Empresas"
	CategoryBancosTradicionais        Category = "Bancos tradicionais"
	CategoryRepresentantesFinanceiras Category = "Representantes financeiras"
	CategoryConcessionariasTratores   Category = "Concessionárias tratores"
	CategoryConcessionariasVeiculos   Category = "Concessionárias veículos"
)

// Categories lists every known category in display order.
func Categories() []Category {
	return []Category{
		CategoryAgriculturaFamiliar,
		CategoryAgroindustrias,
		CategoryPsicultura,
		CategoryMandiocultura,
		CategoryApicultura,
		CategoryCafe,
		CategoryCarne,
		CategoryArtesanato,
		CategoryEmpresas,
		CategoryBancosTradicionais,
		CategoryRepresentantesFinanceiras,
		CategoryConcessionariasTratores,
		CategoryConcessionariasVeiculos,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Exhibitor represents one participant's profile and measured outcomes
// for the event. The identifier is opaque and assigned by the record store.
type Exhibitor struct {
	ID             string // store-assigned, stable for the record's lifetime
	Name           string
	Category       Category
	Products       string // comma separated list of products
	City           string
	BusinessVolume float64 // business volume generated (R$), non-negative
	Visitors       int     // number of visitors, non-negative
}

// GalleryPhoto is one entry in the event photo gallery.
type GalleryPhoto struct {
	ID       string
	URL      string
	Title    string
	Category string
	Date     string // ISO date, newest first in listings
}

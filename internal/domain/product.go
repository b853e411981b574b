package domain

// Product categories offered by the storefront.
const (
	CategoryCCTV         = "CCTV"
	CategoryFireAlarm    = "Fire Alarms"
	CategoryBurglarAlarm = "Burglar Alarms"
)

// Product is a catalog entry. Prices are in centavos.
type Product struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Price             int64             `json:"price"`
	Description       string            `json:"description"`
	FullDescription   string            `json:"fullDescription"`
	Image             string            `json:"image"`
	Specs             map[string]string `json:"specs"`
	Inclusions        []string          `json:"inclusions"`
	InstallationPrice int64             `json:"installationPrice"`
	SupplierID        *int64            `json:"supplierId,omitempty"`
	SupplierName      *string           `json:"supplierName,omitempty"`
}

// Normalize fills nil collection fields with empty containers so the product
// serializes to {} / [] rather than null.
func (p *Product) Normalize() {
	if p.Specs == nil {
		p.Specs = map[string]string{}
	}
	if p.Inclusions == nil {
		p.Inclusions = []string{}
	}
}

// WithInstallation returns a snapshot of the product priced and named as the
// "with installation" variant. The product identity (ID) is unchanged: the
// variant and the base product share a cart line.
func (p Product) WithInstallation() Product {
	v := p
	v.Price = p.Price + p.InstallationPrice
	v.Name = p.Name + " (with Installation)"
	return v
}

// ProductPatch is a partial update of a product. Nil fields are left
// untouched by an update.
type ProductPatch struct {
	Name              *string            `json:"name,omitempty"`
	Category          *string            `json:"category,omitempty"`
	Price             *int64             `json:"price,omitempty"`
	Description       *string            `json:"description,omitempty"`
	FullDescription   *string            `json:"fullDescription,omitempty"`
	Image             *string            `json:"image,omitempty"`
	Specs             *map[string]string `json:"specs,omitempty"`
	Inclusions        *[]string          `json:"inclusions,omitempty"`
	InstallationPrice *int64             `json:"installationPrice,omitempty"`
	SupplierID        Optional[int64]    `json:"supplierId,omitzero"`
	SupplierName      Optional[string]   `json:"supplierName,omitzero"`
}

// Apply merges the non-nil patch fields into the product.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.FullDescription != nil {
		p.FullDescription = *patch.FullDescription
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Specs != nil {
		p.Specs = *patch.Specs
	}
	if patch.Inclusions != nil {
		p.Inclusions = *patch.Inclusions
	}
	if patch.InstallationPrice != nil {
		p.InstallationPrice = *patch.InstallationPrice
	}
	if patch.SupplierID.Set {
		p.SupplierID = patch.SupplierID.Value
	}
	if patch.SupplierName.Set {
		p.SupplierName = patch.SupplierName.Value
	}
}

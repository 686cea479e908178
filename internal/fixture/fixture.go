// Package fixture holds the built-in catalog: the static products that are always
// listed next to persisted ones, and the reference categories used by the memory
// data source and by offline clients.
package fixture

import (
	"time"

	"github.com/moementrabelsi/mma/internal/model"
)

const unsplash = "https://images.unsplash.com/"

const (
	imgSeeds      = unsplash + "photo-1466692476868-aef1dfb1e735"
	imgTools      = unsplash + "photo-1416879595882-3373a0480b5b"
	imgFertilizer = unsplash + "photo-1585320806297-9794b3e4eeae"
	imgPest       = unsplash + "photo-1530836369250-ef72a3f5cda8"
)

func large(base string) string { return base + "?w=800" }

// epoch is the fixed creation date reported for built-in records
var epoch = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

// Categories returns a fresh copy of the reference categories
func Categories() []model.Category {
	return []model.Category{
		{ID: "seeds", Name: "Graines", Description: "Graines de qualité pour votre jardin", Image: imgSeeds + "?w=400", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "equipment", Name: "Équipement", Description: "Outils et équipements agricoles professionnels", Image: imgTools + "?w=400", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "fertilizers", Name: "Engrais", Description: "Engrais naturels et organiques", Image: imgFertilizer + "?w=400", CreatedAt: epoch, UpdatedAt: epoch},
		{ID: "pesticides", Name: "Pesticides", Description: "Solutions de protection des cultures", Image: imgPest + "?w=400", CreatedAt: epoch, UpdatedAt: epoch},
	}
}

// SubCategories returns a fresh copy of the reference subcategories
func SubCategories() []model.SubCategory {
	sub := func(id, name, category, description string) model.SubCategory {
		return model.SubCategory{ID: id, Name: name, CategoryID: category, Description: description, CreatedAt: epoch, UpdatedAt: epoch}
	}
	return []model.SubCategory{
		sub("vegetable-seeds", "Graines de Légumes", "seeds", "Graines de légumes variés"),
		sub("fruit-seeds", "Graines de Fruits", "seeds", "Graines de fruits"),
		sub("flower-seeds", "Graines de Fleurs", "seeds", "Graines de fleurs ornementales"),
		sub("herb-seeds", "Graines d'Herbes", "seeds", "Graines d'herbes aromatiques"),

		sub("garden-tools", "Outils de Jardin", "equipment", "Outils manuels pour le jardinage"),
		sub("irrigation", "Irrigation", "equipment", "Systèmes d'irrigation"),
		sub("greenhouse-equipment", "Équipement de Serre", "equipment", "Équipements pour serres"),
		sub("machinery", "Machinerie", "equipment", "Machines agricoles"),

		sub("organic-fertilizers", "Engrais Organiques", "fertilizers", "Engrais naturels"),
		sub("chemical-fertilizers", "Engrais Chimiques", "fertilizers", "Engrais synthétiques"),

		sub("organic-pesticides", "Pesticides Organiques", "pesticides", "Pesticides naturels"),
		sub("chemical-pesticides", "Pesticides Chimiques", "pesticides", "Pesticides synthétiques"),
	}
}

// StaticProducts returns a fresh copy of the built-in products, all flagged IsStatic
func StaticProducts() []model.Product {
	products := []model.Product{
		{
			ID:          "static-1",
			Name:        "Premium Organic Seeds Collection",
			Category:    "seeds",
			SubCategory: "vegetable-seeds",
			Description: "Collection complète de graines biologiques premium pour votre jardin. Inclut des variétés rares et des semences certifiées bio. " +
				"Cette collection exclusive comprend des variétés anciennes et modernes, toutes certifiées biologiques et adaptées à différents climats.",
			Image:      imgSeeds + "?w=500",
			Images:     []string{large(imgSeeds), large(imgTools), large(imgFertilizer), large(imgPest)},
			Price:      45.99,
			Attributes: model.Attributes{model.AttributeType: "organic", model.AttributeUsage: "home-garden"},
		},
		{
			ID:          "static-2",
			Name:        "Professional Garden Tool Set",
			Category:    "equipment",
			SubCategory: "garden-tools",
			Description: "Ensemble professionnel d'outils de jardinage de qualité supérieure. Parfait pour les jardiniers expérimentés. " +
				"Comprend des outils en acier inoxydable avec poignées ergonomiques en bois dur.",
			Image:      imgTools + "?w=500",
			Images:     []string{large(imgTools), large(imgSeeds), large(imgFertilizer)},
			Price:      89.50,
			Attributes: model.Attributes{model.AttributeType: "professional", model.AttributeUsage: "commercial"},
		},
		{
			ID:          "static-3",
			Name:        "Natural Fertilizer Premium",
			Category:    "fertilizers",
			SubCategory: "organic-fertilizers",
			Description: "Engrais naturel premium à base d'ingrédients organiques. Idéal pour une croissance saine et durable. " +
				"Formule enrichie en nutriments essentiels pour un développement optimal des plantes.",
			Image:      imgFertilizer + "?w=500",
			Images:     []string{large(imgFertilizer), large(imgPest), large(imgSeeds)},
			Price:      32.75,
			Attributes: model.Attributes{model.AttributeType: "organic", model.AttributeUsage: "home-garden"},
		},
		{
			ID:          "static-4",
			Name:        "Eco-Friendly Pest Control Spray",
			Category:    "pesticides",
			SubCategory: "organic-pesticides",
			Description: "Spray de contrôle des nuisibles respectueux de l'environnement. Sans produits chimiques agressifs. " +
				"Formule à base d'ingrédients naturels, sûr pour les plantes et les animaux domestiques.",
			Image:      imgPest + "?w=500",
			Images:     []string{large(imgPest), large(imgTools), large(imgFertilizer), large(imgSeeds)},
			Price:      24.99,
			Attributes: model.Attributes{model.AttributeType: "organic", model.AttributeUsage: "home-garden"},
		},
		{
			ID:          "static-5",
			Name:        "Deluxe Greenhouse Kit",
			Category:    "equipment",
			SubCategory: "greenhouse-equipment",
			Description: "Kit de serre de luxe avec tous les accessoires nécessaires. Parfait pour les cultures toute l'année. " +
				"Structure robuste en aluminium avec panneaux en polycarbonate résistants aux intempéries.",
			Image:      imgTools + "?w=500",
			Images:     []string{large(imgTools), large(imgSeeds), large(imgFertilizer), large(imgPest), large(imgTools)},
			Price:      299.99,
			Attributes: model.Attributes{model.AttributeType: "premium", model.AttributeUsage: "commercial"},
		},
	}
	for i := range products {
		products[i].InStock = true
		products[i].IsStatic = true
		products[i].CreatedAt = epoch
		products[i].UpdatedAt = epoch
	}
	return products
}

// StaticProduct looks up a built-in product by id
func StaticProduct(id string) (model.Product, bool) {
	for _, p := range StaticProducts() {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// IsStaticID reports whether id belongs to a built-in product
func IsStaticID(id string) bool {
	_, ok := StaticProduct(id)
	return ok
}

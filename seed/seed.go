// Package seed loads the demo catalog.
package seed

import (
	"errors"

	"github.com/junaidrashid-git/food-delivery-api/logger"
	"github.com/junaidrashid-git/food-delivery-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type product struct {
	name, slug, description, price, image string
}

type category struct {
	name, slug, color, icon string
	products                []product
}

var catalog = []category{
	{"Lanches", "lanches", "#ff6b35", "🍔", []product{
		{"X-Burger Clássico", "x-burger-classico", "Hambúrguer artesanal com queijo, alface, tomate e molho especial", "18.90", "https://images.unsplash.com/photo-1568901346375-23c9450c58cd?w=400&h=300&fit=crop"},
		{"X-Bacon Deluxe", "x-bacon-deluxe", "Hambúrguer com bacon crocante, queijo cheddar e cebola caramelizada", "22.90", "https://images.unsplash.com/photo-1571091655789-405eb7a3a3a8?w=400&h=300&fit=crop"},
		{"Chicken Burger", "chicken-burger", "Peito de frango grelhado, queijo, alface e maionese temperada", "19.90", "https://images.unsplash.com/photo-1606755962773-d324e2d63154?w=400&h=300&fit=crop"},
	}},
	{"Pizzas", "pizzas", "#ff9500", "🍕", []product{
		{"Pizza Margherita", "pizza-margherita", "Molho de tomate, mussarela, manjericão fresco e azeite", "35.90", "https://images.unsplash.com/photo-1604382354936-07c5d9983bd3?w=400&h=300&fit=crop"},
		{"Pizza Pepperoni", "pizza-pepperoni", "Molho de tomate, mussarela e pepperoni premium", "42.90", "https://images.unsplash.com/photo-1628840042765-356cda07504e?w=400&h=300&fit=crop"},
		{"Pizza Quatro Queijos", "pizza-quatro-queijos", "Mussarela, gorgonzola, parmesão e provolone", "39.90", "https://images.unsplash.com/photo-1513104890138-7c749659a591?w=400&h=300&fit=crop"},
	}},
	{"Bebidas", "bebidas", "#007aff", "🥤", []product{
		{"Coca-Cola 350ml", "coca-cola-350ml", "Refrigerante Coca-Cola lata 350ml gelado", "4.50", "https://images.unsplash.com/photo-1554866585-cd94860890b7?w=400&h=300&fit=crop"},
		{"Suco de Laranja Natural", "suco-laranja-natural", "Suco de laranja 100% natural sem açúcar - 300ml", "6.90", "https://images.unsplash.com/photo-1621506289937-a8e4df240d0b?w=400&h=300&fit=crop"},
		{"Água Mineral 500ml", "agua-mineral-500ml", "Água mineral sem gás - 500ml", "3.00", "https://images.unsplash.com/photo-1550572017-edd951aa8f72?w=400&h=300&fit=crop"},
	}},
	{"Sobremesas", "sobremesas", "#ff2d92", "🍰", []product{
		{"Pudim de Leite", "pudim-de-leite", "Pudim de leite condensado com calda de caramelo", "8.90", "https://images.unsplash.com/photo-1551024506-0bccd828d307?w=400&h=300&fit=crop"},
		{"Torta de Chocolate", "torta-de-chocolate", "Deliciosa torta de chocolate meio amargo com ganache", "12.90", "https://images.unsplash.com/photo-1606313564200-e75d5e30476c?w=400&h=300&fit=crop"},
		{"Sorvete 2 Bolas", "sorvete-2-bolas", "Duas bolas de sorvete à sua escolha com cobertura", "9.90", "https://images.unsplash.com/photo-1563805042-7684c019e1cb?w=400&h=300&fit=crop"},
	}},
}

var banner = models.Banner{
	Title:       "Delivery Rápido e Saboroso",
	Description: "Peça agora e receba em casa com rapidez e qualidade!",
	ImageURL:    "https://images.unsplash.com/photo-1571091718767-18b5b1457add?w=1200&h=400&fit=crop",
	IsActive:    true,
}

// Result counts the rows Run inserted.
type Result struct {
	Banners, Categories, Products int
}

// Run inserts the demo catalog in one transaction. Rows whose slug (or,
// for the banner, title) already exists are left alone, so it can be rerun.
func Run(db *gorm.DB) (Result, error) {
	var res Result
	err := db.Transaction(func(tx *gorm.DB) error {
		created, err := firstOrCreate(tx, &models.Banner{}, "title = ?", banner.Title, func() interface{} {
			b := banner
			return &b
		})
		if err != nil {
			return err
		}
		if created {
			res.Banners++
		}

		for _, c := range catalog {
			var cat models.Category
			err := tx.Where("slug = ?", c.slug).First(&cat).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				cat = models.Category{Name: c.name, Slug: c.slug, Color: c.color, ImageURL: c.icon, IsActive: true}
				if err := tx.Create(&cat).Error; err != nil {
					return err
				}
				res.Categories++
			case err != nil:
				return err
			}

			for _, p := range c.products {
				p := p
				created, err := firstOrCreate(tx.Unscoped(), &models.Product{}, "slug = ?", p.slug, func() interface{} {
					return &models.Product{
						Name:        p.name,
						Slug:        p.slug,
						Description: p.description,
						Price:       decimal.RequireFromString(p.price),
						ImageURL:    p.image,
						IsActive:    true,
						CategoryID:  cat.ID,
					}
				})
				if err != nil {
					return err
				}
				if created {
					res.Products++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	logger.Log.WithField("banners", res.Banners).
		WithField("categories", res.Categories).
		WithField("products", res.Products).
		Info("seed completed")
	return res, nil
}

func firstOrCreate(tx *gorm.DB, model interface{}, query string, arg interface{}, build func() interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where(query, arg).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	return true, tx.Create(build()).Error
}

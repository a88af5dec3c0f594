package catalog

import (
	"github.com/shopspring/decimal"

	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/pkg/slug"
)

type seedProduct struct {
	name, price, image, description string
}

var seedProducts = []seedProduct{
	{"Classic Denim Jacket", "79.99", "denim-jackets.png",
		"A timeless denim jacket that is a must-have for any wardrobe. Made from 100% premium cotton, it offers both comfort and durability. Perfect for layering over a t-shirt or sweater."},
	{"Striped Cotton Tee", "29.99", "",
		"A classic striped t-shirt made from soft, breathable cotton. Its versatile design makes it easy to pair with jeans, chinos, or shorts for a casual, stylish look."},
	{"Leather Ankle Boots", "120.00", "",
		"Crafted from genuine leather, these ankle boots combine style and comfort. Featuring a sturdy sole and a sleek design, they are perfect for both casual and formal occasions."},
	{"Minimalist Watch", "99.50", "",
		"An elegant and minimalist watch with a clean dial and a comfortable leather strap. Its understated design makes it a versatile accessory for any outfit."},
	{"Slim Fit Chinos", "65.00", "",
		"Modern slim-fit chinos made from a comfortable stretch-cotton blend. A versatile staple that can be dressed up or down for any occasion."},
	{"Wool Scarf", "35.00", "",
		"Stay warm and stylish with this soft wool scarf. Its classic design and high-quality material make it an essential accessory for colder weather."},
	{"Suede Loafers", "85.99", "",
		"Comfortable and stylish suede loafers, perfect for a smart-casual look. The soft suede and cushioned insole provide all-day comfort."},
	{"Aviator Sunglasses", "45.50", "",
		"Classic aviator sunglasses with a lightweight metal frame and UV-protective lenses. A timeless accessory for a cool and confident look."},
	{"Bohemian Maxi Dress", "89.99", "",
		"A flowy and elegant bohemian maxi dress, perfect for summer days and special occasions. Features intricate patterns and a comfortable, lightweight fabric."},
	{"Canvas Backpack", "59.99", "",
		"A durable and stylish canvas backpack with multiple compartments for all your essentials. Ideal for school, work, or weekend adventures."},
	{"Knit Beanie", "24.50", "",
		"A soft and cozy knit beanie to keep you warm during the colder months. A simple, classic design that complements any winter outfit."},
	{"Vintage Graphic Tee", "32.00", "",
		"A comfortable cotton tee with a retro-inspired graphic print. Gives a cool, worn-in feel for a perfect casual style."},
}

// Seed returns the storefront's product list in display order. Ids are the
// slug of the name; images default to <id>.png.
func Seed() []domain.Product {
	out := make([]domain.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		id := slug.Generate(p.name)
		image := p.image
		if image == "" {
			image = id + ".png"
		}
		out = append(out, domain.Product{
			ID:          id,
			Name:        p.name,
			Price:       decimal.RequireFromString(p.price),
			Image:       image,
			Description: p.description,
		})
	}
	return out
}

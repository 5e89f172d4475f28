package storefront

import "github.com/fjod/go_cart/storefront/internal/domain"

// SampleProducts seeds an empty store from the admin dashboard.
var SampleProducts = []domain.ProductInput{
	{
		Name:        "Classic Black Abaya",
		Description: "Elegant and timeless black abaya perfect for everyday wear. Made from premium breathable fabric with modest fit.",
		Price:       3500,
		Stock:       15,
		Category:    "Abayas",
		ImageURL:    "/assets/generated/abaya-black.dim_800x800.jpg",
	},
	{
		Name:        "Embroidered Navy Abaya",
		Description: "Luxurious navy blue abaya with intricate gold embroidery on sleeves and neckline. Perfect for special occasions.",
		Price:       5500,
		Stock:       8,
		Category:    "Abayas",
		ImageURL:    "/assets/generated/abaya-embroidered.dim_800x800.jpg",
	},
	{
		Name:        "Premium Chiffon Hijab",
		Description: "Soft and lightweight chiffon hijab in beautiful pastel pink. Easy to style and comfortable for all-day wear.",
		Price:       850,
		Stock:       30,
		Category:    "Hijabs",
		ImageURL:    "/assets/generated/hijab-chiffon.dim_800x800.jpg",
	},
	{
		Name:        "Cotton Jersey Hijab",
		Description: "Ultra-soft cotton jersey hijab in warm beige. Non-slip material that stays in place throughout the day.",
		Price:       650,
		Stock:       40,
		Category:    "Hijabs",
		ImageURL:    "/assets/generated/hijab-jersey.dim_800x800.jpg",
	},
	{
		Name:        "Elegant Tote Bag",
		Description: "Spacious camel brown leather tote bag perfect for daily use. Features multiple compartments and durable construction.",
		Price:       4200,
		Stock:       12,
		Category:    "Bags",
		ImageURL:    "/assets/generated/bag-tote.dim_800x800.jpg",
	},
	{
		Name:        "Chic Crossbody Bag",
		Description: "Stylish black crossbody bag with elegant gold chain strap. Compact yet spacious, perfect for outings.",
		Price:       3800,
		Stock:       10,
		Category:    "Bags",
		ImageURL:    "/assets/generated/bag-crossbody.dim_800x800.jpg",
	},
	{
		Name:        "Luxury Oud Perfume",
		Description: "Rich and captivating oud fragrance with warm woody notes. Long-lasting premium Arabian perfume in elegant bottle.",
		Price:       2500,
		Stock:       20,
		Category:    "Perfumes",
		ImageURL:    "/assets/generated/perfume-oud.dim_800x800.jpg",
	},
	{
		Name:        "Floral Musk Perfume",
		Description: "Delicate floral musk scent with hints of jasmine and rose. Perfect for daily wear with lasting freshness.",
		Price:       2200,
		Stock:       25,
		Category:    "Perfumes",
		ImageURL:    "/assets/generated/perfume-musk.dim_800x800.jpg",
	},
	{
		Name:        "Decorative Hijab Pins Set",
		Description: "Beautiful set of 6 hijab pins adorned with pearls and crystals. Gold and silver tones in elegant designs.",
		Price:       950,
		Stock:       35,
		Category:    "Accessories",
		ImageURL:    "/assets/generated/accessories-pins.dim_800x800.jpg",
	},
	{
		Name:        "Elegant Brooch Collection",
		Description: "Set of 3 stunning brooches featuring Islamic geometric patterns with gold finish and pearl accents.",
		Price:       1200,
		Stock:       28,
		Category:    "Accessories",
		ImageURL:    "/assets/generated/accessories-brooches.dim_800x800.jpg",
	},
}

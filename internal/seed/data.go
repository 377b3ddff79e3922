package seed

type categorySeed struct {
	Name  string
	Image string
	Count int64
}

type productSeed struct {
	Name          string
	Description   string
	Price         string
	OriginalPrice string
	Discount      int
	SKU           string
	Category      string
	Colors        []string
	Sizes         []string
	Features      []string
	Images        []string
}

type reviewSeed struct {
	SKU     string
	Rating  int
	Comment string
}

var categories = []categorySeed{
	{Name: "Men's Fashion", Image: "https://asset1.marksandspencer.com/is/image/mands/150827_BSLH-8586_TS_Suiting_final_03.jpg?wid=770", Count: 100},
	{Name: "Women's Fashion", Image: "https://images.unsplash.com/photo-1445205170230-053b83016050?w=300&h=200&fit=crop", Count: 120},
	{Name: "Kids Fashion", Image: "https://petitekingdom.com/wp-content/uploads/2022/01/kleitas-meitenem-petite-kingdom-1024x682.jpg", Count: 80},
	{Name: "Footwear", Image: "https://housershoes.com/cdn/shop/files/23FW_SportsMom_OM_151183_151181_082_even_lower_cropped.jpg?crop=region&crop_height=1600&crop_left=0&crop_top=152&crop_width=1600&v=1741787825&width=1600", Count: 60},
}

var products = []productSeed{
	{
		Name:          "Men's Classic Shirt",
		Description:   "A timeless classic t-shirt for men. Soft, comfortable, and perfect for everyday wear.",
		Price:         "19.99",
		OriginalPrice: "29.99",
		Discount:      33,
		SKU:           "MTS-001",
		Category:      "Men's Fashion",
		Colors:        []string{"White", "Black", "Navy"},
		Sizes:         []string{"S", "M", "L", "XL"},
		Features:      []string{"100% cotton", "Regular fit", "Machine washable"},
		Images:        []string{"https://storefico.com/wp-content/uploads/2022/01/IMG_7015-2-59-scaled.jpg"},
	},
	{
		Name:          "Men's Slim Fit Jeans",
		Description:   "Stylish slim fit jeans for men. Durable and comfortable for all-day wear.",
		Price:         "39.99",
		OriginalPrice: "49.99",
		Discount:      20,
		SKU:           "MJ-001",
		Category:      "Men's Fashion",
		Colors:        []string{"Blue", "Black"},
		Sizes:         []string{"30", "32", "34", "36"},
		Features:      []string{"Slim fit", "Stretch fabric", "Classic 5-pocket style"},
		Images:        []string{"https://www.mangooutlet.com/assets/rcs/pics/static/T7/fotos/S/77050594_TM.jpg?imwidth=2048&imdensity=1&ts=1715269240341"},
	},
	{
		Name:          "Women's Summer Dress",
		Description:   "Lightweight and breezy summer dress for women. Perfect for warm days and casual outings.",
		Price:         "29.99",
		OriginalPrice: "39.99",
		Discount:      25,
		SKU:           "WSD-001",
		Category:      "Women's Fashion",
		Colors:        []string{"Red", "Blue", "Yellow"},
		Sizes:         []string{"XS", "S", "M", "L"},
		Features:      []string{"Lightweight fabric", "Floral print", "Adjustable straps"},
		Images:        []string{"https://img.theloom.in/blog/wp-content/uploads/2022/05/dsc02011-e1652506726503.png"},
	},
	{
		Name:          "Women's Denim Jacket",
		Description:   "Trendy denim jacket for women. Layer up in style for any season.",
		Price:         "49.99",
		OriginalPrice: "59.99",
		Discount:      17,
		SKU:           "WDJ-001",
		Category:      "Women's Fashion",
		Colors:        []string{"Blue", "Black"},
		Sizes:         []string{"S", "M", "L", "XL"},
		Features:      []string{"Classic denim", "Button closure", "Two front pockets"},
		Images:        []string{"https://image.made-in-china.com/2f0j00sZelVUHPagrR/High-Quality-Blue-Oversized-Long-Denim-Jackets-Distressed-Womens-Jean-Jacket-Wholesale-Denim-Jackets.webp"},
	},
	{
		Name:          "Kids' Graphic Tee",
		Description:   "Fun and colorful graphic t-shirt for kids. Soft and comfortable for playtime.",
		Price:         "14.99",
		OriginalPrice: "19.99",
		Discount:      25,
		SKU:           "KGT-001",
		Category:      "Kids Fashion",
		Colors:        []string{"Green", "Yellow", "Pink"},
		Sizes:         []string{"2T", "3T", "4T", "5T"},
		Features:      []string{"Soft cotton", "Fun print", "Easy care"},
		Images:        []string{"https://vivamake.com/wp-content/uploads/2020/08/kid-tshirt-with-print-black-monster.jpg"},
	},
	{
		Name:          "Kids' Jogger Pants",
		Description:   "Comfortable jogger pants for kids. Great for active days and lounging.",
		Price:         "19.99",
		OriginalPrice: "24.99",
		Discount:      20,
		SKU:           "KJP-001",
		Category:      "Kids Fashion",
		Colors:        []string{"Gray", "Navy"},
		Sizes:         []string{"2T", "3T", "4T", "5T"},
		Features:      []string{"Elastic waistband", "Ribbed cuffs", "Side pockets"},
		Images:        []string{"https://m.media-amazon.com/images/I/61pwUr17h2L.jpg"},
	},
	{
		Name:          "Men's Running Shoes",
		Description:   "Lightweight and supportive running shoes for men. Designed for comfort and performance.",
		Price:         "59.99",
		OriginalPrice: "79.99",
		Discount:      25,
		SKU:           "MRS-001",
		Category:      "Footwear",
		Colors:        []string{"Black", "White", "Gray"},
		Sizes:         []string{"8", "9", "10", "11", "12"},
		Features:      []string{"Breathable mesh", "Cushioned sole", "Lightweight design"},
		Images:        []string{"https://cdn.runrepeat.com/storage/gallery/buying_guide_primary/16/16-best-long-distance-running-shoes-15275091-main.jpg"},
	},
	{
		Name:          "Women's Sandals",
		Description:   "Comfortable and stylish sandals for women. Perfect for summer days.",
		Price:         "24.99",
		OriginalPrice: "34.99",
		Discount:      29,
		SKU:           "WSD-002",
		Category:      "Footwear",
		Colors:        []string{"Beige", "White", "Black"},
		Sizes:         []string{"6", "7", "8", "9"},
		Features:      []string{"Adjustable straps", "Non-slip sole", "Lightweight"},
		Images:        []string{"https://heelsshoes.pk/cdn/shop/files/060008-MGR.jpg?v=1752261191"},
	},
}

// testuserのレビュー
var reviews = []reviewSeed{
	{SKU: "MTS-001", Rating: 5, Comment: "Great quality t-shirt, fits perfectly!"},
	{SKU: "WSD-001", Rating: 4, Comment: "Lovely summer dress, very comfortable."},
	{SKU: "MRS-001", Rating: 5, Comment: "Best running shoes I've owned!"},
}

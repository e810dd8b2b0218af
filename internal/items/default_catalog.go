package items

// DefaultCatalogSource is the seed-independent DSL bootstrapping the stock
// item catalog and base recipe table (§3.6). kernel.New parses this each
// time a kernel is built; the catalog is frozen "per seed" in name only:
// its contents never vary with the seed.
const DefaultCatalogSource = `
item wood weight=1.0 category=material natural=true;
item stone weight=2.0 category=material natural=true;
item ore weight=3.0 category=material natural=true;
item fiber weight=0.2 category=material natural=true;
item berries weight=0.1 category=food natural=true nutrition=8.0;
item meat weight=0.5 category=food nutrition=20.0;
item axe weight=2.0 category=tool durability=80.0 buildValue=1.0;
item spear weight=1.5 category=weapon damage=6.0 durability=60.0;
item blade weight=1.0 category=weapon damage=10.0 durability=50.0;
item basket weight=0.8 category=container storage=20.0 durability=40.0;
item wall weight=5.0 category=building buildValue=10.0 durability=200.0;

recipe basic_axe = wood*2 stone*1 -> axe*1 tech=0;
recipe basic_spear = wood*1 stone*1 -> spear*1 tech=0;
recipe stone_blade = stone*3 -> blade*1 tech=1;
recipe woven_basket = fiber*4 -> basket*1 tech=0;
recipe stone_wall = stone*5 -> wall*1 tech=2;
`
